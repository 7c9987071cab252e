package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var timeFixture = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, c := range []Compression{Gzip, Zlib} {
		t.Run(c.String(), func(t *testing.T) {
			src := t.TempDir()
			writeTree(t, src, map[string]string{
				"Makefile.toml":   "[tasks.build]\n",
				"bin/partyplanner": "#!/bin/sh\n",
			})
			if err := os.Chmod(filepath.Join(src, "bin/partyplanner"), 0755); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := Pack(&buf, src, c); err != nil {
				t.Fatalf("Pack: %v", err)
			}

			dest := filepath.Join(t.TempDir(), "out")
			if err := Unpack(&buf, dest); err != nil {
				t.Fatalf("Unpack: %v", err)
			}

			got, err := os.ReadFile(filepath.Join(dest, "Makefile.toml"))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "[tasks.build]\n" {
				t.Fatalf("Makefile.toml = %q", got)
			}

			info, err := os.Stat(filepath.Join(dest, "bin/partyplanner"))
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != 0755 {
				t.Fatalf("mode = %v, want 0755", info.Mode().Perm())
			}
		})
	}
}

func TestPackIsDeterministic(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a": "1", "b/c": "2"})

	var first, second bytes.Buffer
	if err := Pack(&first, src, Gzip); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(filepath.Join(src, "a"), timeFixture, timeFixture); err != nil {
		t.Fatal(err)
	}
	if err := Pack(&second, src, Gzip); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("Pack output changed after touching a file")
	}
}

func TestUnpackUnknownCompression(t *testing.T) {
	err := Unpack(bytes.NewReader([]byte("not an archive")), t.TempDir())
	if !errors.Is(err, ErrUnknownCompression) {
		t.Fatalf("err = %v, want ErrUnknownCompression", err)
	}
}

func TestUnpackTruncated(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"file": string(bytes.Repeat([]byte("x"), 4096))})

	var buf bytes.Buffer
	if err := Pack(&buf, src, Zlib); err != nil {
		t.Fatal(err)
	}

	truncated := buf.Bytes()[:buf.Len()/2]
	if err := Unpack(bytes.NewReader(truncated), t.TempDir()); err == nil {
		t.Fatal("expected error for truncated archive")
	}
}

func TestUntarRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "../evil", Mode: 0644, Size: 1, Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	tw.Close()

	dest := filepath.Join(t.TempDir(), "dest")
	err := Untar(&buf, dest)
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("err = %v, want ErrUnsafePath", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "evil")); !os.IsNotExist(err) {
		t.Fatal("escaping entry was written")
	}
}

func TestUntarSymlink(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "link", Linkname: "target", Typeflag: tar.TypeSymlink, Mode: 0777}); err != nil {
		t.Fatal(err)
	}
	tw.Close()

	dest := t.TempDir()
	if err := Untar(&buf, dest); err != nil {
		t.Fatalf("Untar: %v", err)
	}
	got, err := os.Readlink(filepath.Join(dest, "link"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "target" {
		t.Fatalf("link = %q, want target", got)
	}
}

func TestUntarSymlinkCannotRedirectEntries(t *testing.T) {
	outside := t.TempDir()
	victim := filepath.Join(outside, "victim")
	if err := os.WriteFile(victim, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	entries := []struct {
		header tar.Header
		body   string
	}{
		{tar.Header{Name: "dir", Linkname: outside, Typeflag: tar.TypeSymlink, Mode: 0777}, ""},
		{tar.Header{Name: "dir/evil", Mode: 0644, Size: 1, Typeflag: tar.TypeReg}, "x"},
		{tar.Header{Name: "file", Linkname: victim, Typeflag: tar.TypeSymlink, Mode: 0777}, ""},
		{tar.Header{Name: "file", Mode: 0644, Size: 3, Typeflag: tar.TypeReg}, "new"},
	}
	for _, e := range entries {
		if err := tw.WriteHeader(&e.header); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	tw.Close()

	dest := t.TempDir()
	if err := Untar(&buf, dest); err != nil {
		t.Fatalf("Untar: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outside, "evil")); !os.IsNotExist(err) {
		t.Fatal("entry was written through a symlink outside dest")
	}
	if got, err := os.ReadFile(victim); err != nil || string(got) != "keep" {
		t.Fatalf("victim = %q, %v, want keep", got, err)
	}

	info, err := os.Lstat(filepath.Join(dest, "file"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mode().IsRegular() {
		t.Fatalf("file mode = %v, want regular file", info.Mode())
	}
}
