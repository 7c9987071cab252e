package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Writes the directory tree at srcDir to w as a compressed tar stream.
//
// Entry names are relative to srcDir (an empty root prefix), so unpacking
// the result recreates the contents of srcDir rather than srcDir itself.
// Header timestamps are zeroed to keep the output stable across checkouts.
func Pack(w io.Writer, srcDir string, c Compression) error {
	cw, err := compress(w, c)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(cw)

	if err := writeDirToTar(tw, srcDir); err != nil {
		tw.Close()
		cw.Close()
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if err := tw.Close(); err != nil {
		cw.Close()
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	return nil
}

// Writes a directory tree to a tar writer, skipping the root itself.
func writeDirToTar(tw *tar.Writer, hostDir string) error {
	return filepath.WalkDir(hostDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d)
	})
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = archivePath
	if info.IsDir() {
		header.Name += "/"
	}
	header.Uname, header.Gname = "", ""
	header.Uid, header.Gid = 0, 0
	header.ModTime = time.Unix(0, 0)
	header.AccessTime, header.ChangeTime = time.Time{}, time.Time{}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
