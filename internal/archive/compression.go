package archive

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression format of an archive stream.
type Compression int

const (
	Gzip Compression = iota // RFC 1952 framing.
	Zlib                    // RFC 1950 framing.
)

// Returns the format name.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// Inspects the first two bytes of the stream and returns a decompressing
// reader for the detected format.
//
// A zlib header is recognized by its deflate method nibble and the FCHECK
// constraint that the 16-bit header is a multiple of 31.
func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCompression, err)
	}

	switch {
	case header[0] == 0x1f && header[1] == 0x8b:
		return gzip.NewReader(br)
	case header[0]&0x0f == 0x08 && (uint16(header[0])<<8|uint16(header[1]))%31 == 0:
		return zlib.NewReader(br)
	default:
		return nil, fmt.Errorf("%w: header %#x %#x", ErrUnknownCompression, header[0], header[1])
	}
}

// Returns a compressing writer for the given format.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zlib:
		return zlib.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}
