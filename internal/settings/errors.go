package settings

import "errors"

var (
	ErrInvalid = errors.New("invalid settings")
)
