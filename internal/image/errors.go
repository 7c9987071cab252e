package image

import "errors"

var (
	ErrInvalidReference = errors.New("invalid image reference")
)
