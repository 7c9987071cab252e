package tools

import "errors"

var (
	ErrCorruptBundle       = errors.New("corrupt tool bundle")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
