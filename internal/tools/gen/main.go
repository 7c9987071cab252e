// Command gen packs the embedded tool sources into the bundle archive.
//
// Prebuilt executables (buildsys, pubsys, testsys, tuftool) are not kept in
// the source tree. When --bin names a directory, its regular files are added
// to the bundle next to the scripts.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/twoliter/internal/archive"
)

var cli struct {
	Src         string `help:"Directory with scripts and task definitions." default:"embedded" type:"existingdir"`
	Bin         string `help:"Directory with prebuilt executables to include." env:"TWOLITER_TOOLS_BIN_DIR" type:"path"`
	Out         string `help:"Output archive path." default:"tools.tar.gz" type:"path"`
	Compression string `help:"Compression format." enum:"gzip,zlib" default:"gzip"`
}

func main() {
	kong.Parse(&cli, kong.Name("gen"), kong.Description("Packs the tool bundle."))

	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	stage, err := os.MkdirTemp("", "tools-bundle-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(stage)

	if err := copyFiles(cli.Src, stage); err != nil {
		return err
	}
	if cli.Bin != "" {
		if err := copyFiles(cli.Bin, stage); err != nil {
			return err
		}
	}

	c := archive.Gzip
	if cli.Compression == "zlib" {
		c = archive.Zlib
	}

	var buf bytes.Buffer
	if err := archive.Pack(&buf, stage, c); err != nil {
		return err
	}

	if err := os.WriteFile(cli.Out, buf.Bytes(), 0644); err != nil {
		return err
	}

	slog.Info("bundle written", "path", cli.Out, "bytes", buf.Len())
	return nil
}

// Copies the regular files directly inside src into dest, keeping modes.
func copyFiles(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
			return fmt.Errorf("copy %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
