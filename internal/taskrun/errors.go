package taskrun

import "errors"

var (
	ErrTask = errors.New("task failed")
)
