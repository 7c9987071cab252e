package tools

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/twoliter/internal/paths"
)

// Installs the embedded bundle into dir.
//
// See [InstallBundle].
func Install(dir string, force bool) error {
	return InstallBundle(dir, Default(), force)
}

// Installs a bundle into dir unless it is already installed.
//
// The directory is created if absent. When force is false and the marker in
// dir records the bundle's digest, nothing is written. Otherwise the bundle is
// unpacked over the existing contents and the marker is rewritten, in that
// order, so a failed unpack leaves the previous marker (or none) behind and
// the next install retries.
func InstallBundle(dir string, b Bundle, force bool) error {
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: unable to create directory %q: %w", ErrFileSystemOperation, dir, err)
	}

	installed, err := readMarker(dir)
	if err != nil {
		return err
	}

	if !force && installed == b.Hash {
		slog.Debug("tools up to date", "dir", dir, "hash", b.Hash)
		return nil
	}

	slog.Debug("installing tools", "dir", dir, "hash", b.Hash, "previous", installed, "force", force)

	if err := Unpack(dir, b); err != nil {
		return err
	}

	if err := os.WriteFile(markerPath(dir), []byte(b.Hash.String()), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: unable to write %q: %w", ErrFileSystemOperation, markerPath(dir), err)
	}

	slog.Info("installed tools", "dir", dir)
	return nil
}
