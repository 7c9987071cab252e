package proc

import "errors"

var (
	ErrStart = errors.New("failed to start process")
	ErrExit  = errors.New("process exited with non-zero status")
)
