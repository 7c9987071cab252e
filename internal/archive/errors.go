package archive

import "errors"

var (
	ErrArchive            = errors.New("archive error")
	ErrUnknownCompression = errors.New("unknown compression format")
	ErrUnsafePath         = errors.New("archive entry escapes destination")
)
