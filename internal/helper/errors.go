package helper

import "errors"

var (
	ErrHelper   = errors.New("helper container error")
	ErrReleased = errors.New("guard already released")
	ErrRelease  = errors.New("failed to release transient resources")
)
