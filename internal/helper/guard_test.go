package helper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cruciblehq/twoliter/internal/image"
)

// Records calls and optionally fails them.
type fakeRuntime struct {
	calls     []string
	startErr  error
	removeErr error
}

func (f *fakeRuntime) Start(ctx context.Context, name, image string) error {
	f.calls = append(f.calls, "start "+name+" "+image)
	return f.startErr
}

func (f *fakeRuntime) CopyOut(ctx context.Context, name, containerPath, hostDir string) error {
	f.calls = append(f.calls, "cp "+name+":"+containerPath+" "+hostDir)
	return nil
}

func (f *fakeRuntime) Remove(ctx context.Context, name string) error {
	f.calls = append(f.calls, "rm "+name)
	return f.removeErr
}

var sdk = image.NewArchRef("reg", "sdk", "x86_64", "v1")

func TestAcquireStartsContainer(t *testing.T) {
	rt := &fakeRuntime{}
	g, err := Acquire(context.Background(), rt, "sdk-abc", sdk)
	if err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	if g.State() != Created {
		t.Errorf("State() = %v, want %v", g.State(), Created)
	}
	if g.Name() != "sdk-abc" {
		t.Errorf("Name() = %q, want %q", g.Name(), "sdk-abc")
	}
	if diff := cmp.Diff([]string{"start sdk-abc reg/sdk-x86_64:v1"}, rt.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAcquireFailure(t *testing.T) {
	cause := errors.New("no such image")
	_, err := Acquire(context.Background(), &fakeRuntime{startErr: cause}, "sdk-abc", sdk)
	if !errors.Is(err, ErrHelper) || !errors.Is(err, cause) {
		t.Fatalf("Acquire() = %v, want ErrHelper wrapping the cause", err)
	}
}

func TestReleaseExactlyOnce(t *testing.T) {
	rt := &fakeRuntime{}
	ctx := context.Background()
	dir := t.TempDir()
	tracked := filepath.Join(dir, "sdk_rpms")
	if err := os.MkdirAll(filepath.Join(tracked, "rpms"), 0755); err != nil {
		t.Fatal(err)
	}

	g, err := Acquire(ctx, rt, "sdk-abc", sdk)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.CopyOut(ctx, "/twoliter/alpha/build/rpms", tracked); err != nil {
		t.Fatal(err)
	}
	if g.State() != InUse {
		t.Errorf("State() = %v, want %v", g.State(), InUse)
	}
	if err := g.Track(tracked); err != nil {
		t.Fatal(err)
	}

	if err := g.Release(ctx); err != nil {
		t.Fatalf("first Release() = %v", err)
	}
	if _, err := os.Stat(tracked); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("tracked path still exists: %v", err)
	}

	// Recreate the path to prove the second call deletes nothing.
	if err := os.Mkdir(tracked, 0755); err != nil {
		t.Fatal(err)
	}
	if err := g.Release(ctx); err != nil {
		t.Fatalf("second Release() = %v", err)
	}
	if _, err := os.Stat(tracked); err != nil {
		t.Fatalf("second Release deleted the path again: %v", err)
	}

	want := []string{
		"start sdk-abc reg/sdk-x86_64:v1",
		"cp sdk-abc:/twoliter/alpha/build/rpms " + tracked,
		"rm sdk-abc",
	}
	if diff := cmp.Diff(want, rt.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if g.State() != Released {
		t.Errorf("State() = %v, want %v", g.State(), Released)
	}
}

func TestReleaseIgnoresMissingPaths(t *testing.T) {
	g := Files()
	if err := g.Track(filepath.Join(t.TempDir(), "never-created")); err != nil {
		t.Fatal(err)
	}
	if err := g.Release(context.Background()); err != nil {
		t.Fatalf("Release() = %v", err)
	}
}

func TestReleaseReportsFailuresAndStillCleans(t *testing.T) {
	cause := errors.New("daemon gone")
	rt := &fakeRuntime{removeErr: cause}
	g, err := Acquire(context.Background(), rt, "sdk-abc", sdk)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sbkeys")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	g.Track(path)

	err = g.Release(context.Background())
	if !errors.Is(err, ErrRelease) || !errors.Is(err, cause) {
		t.Fatalf("Release() = %v, want ErrRelease wrapping the cause", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("tracked path kept after container removal failed")
	}
	if err := g.Release(context.Background()); err != nil {
		t.Fatalf("second Release() = %v, want nil", err)
	}
}

func TestUseAfterRelease(t *testing.T) {
	g, err := Acquire(context.Background(), &fakeRuntime{}, "sdk-abc", sdk)
	if err != nil {
		t.Fatal(err)
	}
	g.Release(context.Background())

	if err := g.CopyOut(context.Background(), "/x", t.TempDir()); !errors.Is(err, ErrReleased) {
		t.Errorf("CopyOut() = %v, want ErrReleased", err)
	}
	if err := g.Track("/x"); !errors.Is(err, ErrReleased) {
		t.Errorf("Track() = %v, want ErrReleased", err)
	}
}

func TestFilesGuardCannotCopy(t *testing.T) {
	if err := Files().CopyOut(context.Background(), "/x", t.TempDir()); !errors.Is(err, ErrHelper) {
		t.Fatalf("CopyOut() = %v, want ErrHelper", err)
	}
}

func TestReleaseDeletesNewestFirst(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "models")
	inner := filepath.Join(outer, "src", "variant")
	if err := os.MkdirAll(inner, 0755); err != nil {
		t.Fatal(err)
	}

	g := Files()
	g.Track(outer)
	g.Track(inner)
	if err := g.Release(context.Background()); err != nil {
		t.Fatalf("Release() = %v", err)
	}
	if _, err := os.Stat(outer); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("outer path kept")
	}
}
