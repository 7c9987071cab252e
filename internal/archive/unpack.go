package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Default permission mode for directories created during extraction.
const dirMode os.FileMode = 0755

// Decompresses a gzip or zlib tar stream into dest.
//
// The destination directory is created if it does not exist. Existing files
// with the same names are overwritten.
func Unpack(r io.Reader, dest string) error {
	dr, err := decompress(r)
	if err != nil {
		return err
	}
	defer dr.Close()

	return Untar(dr, dest)
}

// Extracts a plain tar stream into dest.
//
// Regular files, directories, and symbolic links are restored with their
// permission bits. Other entry types (devices, FIFOs) are skipped. Entries
// whose names are not local to dest are rejected with [ErrUnsafePath].
// Symbolic links already extracted are resolved with dest as the root, so a
// link pointing outside dest cannot carry later entries out of it.
func Untar(r io.Reader, dest string) error {
	dest = filepath.Clean(dest)
	if err := os.MkdirAll(dest, dirMode); err != nil {
		return fmt.Errorf("%w: unable to create directory %q: %w", ErrArchive, dest, err)
	}

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrArchive, err)
		}

		if err := extractEntry(tr, header, dest); err != nil {
			return err
		}
	}
}

// Writes a single tar entry below dest.
func extractEntry(tr *tar.Reader, header *tar.Header, dest string) error {
	name := filepath.Clean(filepath.FromSlash(header.Name))
	if name == "." {
		return nil
	}
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, header.Name)
	}

	// The last element is never followed; the entry replaces it.
	parent, err := securejoin.SecureJoin(dest, filepath.Dir(name))
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsafePath, header.Name, err)
	}
	target := filepath.Join(parent, filepath.Base(name))
	mode := header.FileInfo().Mode().Perm()

	switch header.Typeflag {
	case tar.TypeDir:
		if err := removeSymlink(target); err != nil {
			return err
		}
		if err := os.MkdirAll(target, dirMode); err != nil {
			return fmt.Errorf("%w: unable to create directory %q: %w", ErrArchive, target, err)
		}
		return nil

	case tar.TypeReg:
		if err := removeSymlink(target); err != nil {
			return err
		}
		return writeFile(tr, target, mode)

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
			return fmt.Errorf("%w: unable to create directory %q: %w", ErrArchive, filepath.Dir(target), err)
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: unable to replace %q: %w", ErrArchive, target, err)
		}
		if err := os.Symlink(header.Linkname, target); err != nil {
			return fmt.Errorf("%w: unable to create symlink %q: %w", ErrArchive, target, err)
		}
		return nil

	default:
		slog.Debug("skipping archive entry", "name", header.Name, "type", string(header.Typeflag))
		return nil
	}
}

// Removes target if it is a symbolic link, so writing to it cannot follow
// the link.
func removeSymlink(target string) error {
	info, err := os.Lstat(target)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("%w: unable to replace %q: %w", ErrArchive, target, err)
	}
	return nil
}

// Copies the current entry's contents into a regular file at target.
//
// The file is truncated if it exists, and its mode is applied explicitly so
// that the process umask does not strip the executable bits of tools.
func writeFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return fmt.Errorf("%w: unable to create directory %q: %w", ErrArchive, filepath.Dir(target), err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: unable to open %q: %w", ErrArchive, target, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("%w: unable to write %q: %w", ErrArchive, target, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: unable to write %q: %w", ErrArchive, target, err)
	}

	if err := os.Chmod(target, mode); err != nil {
		return fmt.Errorf("%w: unable to set mode of %q: %w", ErrArchive, target, err)
	}

	return nil
}
