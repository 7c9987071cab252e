package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cruciblehq/twoliter/internal/docker"
	"github.com/cruciblehq/twoliter/internal/image"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Records build requests and inspects the build context while it exists.
type fakeBuilder struct {
	calls      []docker.BuildOptions
	dockerfile []byte
	makefile   bool
	err        error
}

func (f *fakeBuilder) Build(ctx context.Context, opts docker.BuildOptions) error {
	f.calls = append(f.calls, opts)
	f.dockerfile, _ = os.ReadFile(opts.Dockerfile)
	_, err := os.Stat(filepath.Join(opts.Context, filesDir, tools.Makefile))
	f.makefile = err == nil
	return f.err
}

func TestEnsureImage(t *testing.T) {
	tmp := t.TempDir()
	b := &fakeBuilder{}
	p := New(b, tools.Default()).WithTempDir(tmp)

	base := image.NewArchRef("public.ecr.aws/bottlerocket", "bottlerocket-sdk", "x86_64", "v0.32.0")
	ref, err := p.EnsureImage(context.Background(), base, "x86_64")
	if err != nil {
		t.Fatalf("EnsureImage() = %v", err)
	}

	if ref.URI() != "twoliter:x86_64" {
		t.Errorf("URI() = %q, want %q", ref.URI(), "twoliter:x86_64")
	}
	if len(b.calls) != 1 {
		t.Fatalf("builder called %d times, want 1", len(b.calls))
	}

	opts := b.calls[0]
	if opts.Tag != "twoliter:x86_64" {
		t.Errorf("Tag = %q, want %q", opts.Tag, "twoliter:x86_64")
	}
	wantArgs := []docker.BuildArg{
		{Name: "BASE", Value: "public.ecr.aws/bottlerocket/bottlerocket-sdk-x86_64:v0.32.0"},
		{Name: "ARCH", Value: "x86_64"},
	}
	if diff := cmp.Diff(wantArgs, opts.Args); diff != "" {
		t.Errorf("build args mismatch (-want +got):\n%s", diff)
	}
	if string(b.dockerfile) != string(dockerfile) {
		t.Error("build context Dockerfile differs from the embedded one")
	}
	if !b.makefile {
		t.Error("tool bundle was not unpacked into the build context")
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch directory left behind: %v", entries)
	}
}

func TestEnsureImageAlwaysRebuilds(t *testing.T) {
	b := &fakeBuilder{}
	p := New(b, tools.Default()).WithTempDir(t.TempDir())
	base := image.NewArchRef("", "sdk", "aarch64", "v1")

	for range 2 {
		if _, err := p.EnsureImage(context.Background(), base, "aarch64"); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.calls) != 2 {
		t.Fatalf("builder called %d times, want 2", len(b.calls))
	}
}

func TestEnsureImageBuildFailure(t *testing.T) {
	tmp := t.TempDir()
	cause := errors.New("build exploded")
	p := New(&fakeBuilder{err: cause}, tools.Default()).WithTempDir(tmp)

	_, err := p.EnsureImage(context.Background(), image.NewArchRef("", "sdk", "x86_64", "v1"), "x86_64")
	if !errors.Is(err, ErrProvision) {
		t.Fatalf("EnsureImage() = %v, want ErrProvision", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("EnsureImage() = %v, want the builder error in the chain", err)
	}

	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Errorf("scratch directory left behind after failure: %v", entries)
	}
}

func TestEnsureImageInvalidBase(t *testing.T) {
	b := &fakeBuilder{}
	p := New(b, tools.Default()).WithTempDir(t.TempDir())

	_, err := p.EnsureImage(context.Background(), image.NewArchRef("", "SDK", "x86_64", ""), "x86_64")
	if !errors.Is(err, image.ErrInvalidReference) {
		t.Fatalf("EnsureImage() = %v, want ErrInvalidReference", err)
	}
	if len(b.calls) != 0 {
		t.Fatal("builder called for an invalid base reference")
	}
}

func TestTag(t *testing.T) {
	if got := Tag("aarch64").URI(); got != "twoliter:aarch64" {
		t.Fatalf("Tag() = %q, want %q", got, "twoliter:aarch64")
	}
}
