package mount

import "errors"

var (
	ErrUnresolvedPath      = errors.New("cannot resolve path")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
