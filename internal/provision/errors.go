package provision

import "errors"

var (
	ErrProvision           = errors.New("failed to provision environment image")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
