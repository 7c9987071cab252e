package runtime

import "errors"

var (
	ErrRuntime   = errors.New("runtime error")
	ErrReference = errors.New("invalid image reference")
)
