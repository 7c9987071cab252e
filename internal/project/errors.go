package project

import "errors"

var (
	ErrNotFound = errors.New("project file not found")
	ErrInvalid  = errors.New("invalid project file")
	ErrNoSDK    = errors.New("no SDK image configured")
)
