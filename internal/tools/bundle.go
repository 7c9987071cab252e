package tools

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cruciblehq/twoliter/internal/archive"
	"github.com/opencontainers/go-digest"
)

const (

	// Name of the task definition file inside the bundle.
	Makefile = "Makefile.toml"

	// Name of the marker file holding the installed bundle digest.
	markerFile = ".installed"
)

//go:embed tools.tar.gz
var embedded []byte

// A compressed tar archive of tools, identified by its content digest.
type Bundle struct {
	Data []byte        // gzip or zlib compressed tar stream with an empty root prefix.
	Hash digest.Digest // sha256 digest of Data.
}

// Creates a bundle from raw archive bytes, computing its digest.
func NewBundle(data []byte) Bundle {
	return Bundle{Data: data, Hash: digest.FromBytes(data)}
}

// Returns the bundle embedded in this binary.
func Default() Bundle {
	return NewBundle(embedded)
}

// Extracts the bundle into dir without touching the marker.
//
// Used both by installation and by callers that need a throwaway copy of the
// tools, such as image build contexts.
func Unpack(dir string, b Bundle) error {
	if err := archive.Unpack(bytes.NewReader(b.Data), dir); err != nil {
		return fmt.Errorf("%w: unable to unpack into %q: %w", ErrCorruptBundle, dir, err)
	}
	return nil
}

// Returns the path of the marker file for a tools directory.
func markerPath(dir string) string {
	return filepath.Join(dir, markerFile)
}

// Reads the digest recorded in the marker file.
//
// Returns an empty digest if the marker does not exist.
func readMarker(dir string) (digest.Digest, error) {
	data, err := os.ReadFile(markerPath(dir))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: unable to read %q: %w", ErrFileSystemOperation, markerPath(dir), err)
	}
	return digest.Digest(bytes.TrimSpace(data)), nil
}
