package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `
schema-version = 1
release-version = "1.19.0"

[sdk]
registry = "public.ecr.aws/bottlerocket"
name = "bottlerocket-sdk"
version = "v0.37.0"

[vendor.bottlerocket]
registry = "public.ecr.aws/bottlerocket"
`

// Writes a project file into a fresh canonical directory.
func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeProject(t, sample)

	p, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if p.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", p.Dir(), dir)
	}
	if want := filepath.Join(dir, FileName); p.Path() != want {
		t.Errorf("Path() = %q, want %q", p.Path(), want)
	}
	if p.ReleaseVersion() != "1.19.0" {
		t.Errorf("ReleaseVersion() = %q, want %q", p.ReleaseVersion(), "1.19.0")
	}
	if p.ToolsDir() != filepath.Join(dir, "build", "tools") {
		t.Errorf("ToolsDir() = %q", p.ToolsDir())
	}
	if p.Makefile() != filepath.Join(dir, "build", "tools", "Makefile.toml") {
		t.Errorf("Makefile() = %q", p.Makefile())
	}

	sdk, err := p.SDK("aarch64")
	if err != nil {
		t.Fatalf("SDK() = %v", err)
	}
	if got, want := sdk.URI(), "public.ecr.aws/bottlerocket/bottlerocket-sdk-aarch64:v0.37.0"; got != want {
		t.Errorf("SDK().URI() = %q, want %q", got, want)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() = %v, want ErrNotFound", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := writeProject(t, "release-version = [")
	_, err := Load(filepath.Join(dir, FileName))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load() = %v, want ErrInvalid", err)
	}
}

func TestSDKMissing(t *testing.T) {
	dir := writeProject(t, `release-version = "1.0.0"`)
	p, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.SDK("x86_64"); !errors.Is(err, ErrNoSDK) {
		t.Fatalf("SDK() = %v, want ErrNoSDK", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	dir := writeProject(t, sample)
	nested := filepath.Join(dir, "variants", "aws-dev")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() = %v", err)
	}
	if want := filepath.Join(dir, FileName); got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestFindNotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find() = %v, want ErrNotFound", err)
	}
}

func TestLoadOrFind(t *testing.T) {
	dir := writeProject(t, sample)
	t.Chdir(dir)

	p, err := LoadOrFind("")
	if err != nil {
		t.Fatalf("LoadOrFind() = %v", err)
	}
	if p.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", p.Dir(), dir)
	}
}

func TestToken(t *testing.T) {
	a, err := Load(filepath.Join(writeProject(t, sample), FileName))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(filepath.Join(writeProject(t, sample), FileName))
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Token()) != tokenLength {
		t.Errorf("len(Token()) = %d, want %d", len(a.Token()), tokenLength)
	}
	if a.Token() != a.Token() {
		t.Error("Token() is not stable")
	}
	if a.Token() == b.Token() {
		t.Error("different project directories share a token")
	}
}

func TestGoModules(t *testing.T) {
	dir := writeProject(t, sample)
	for _, m := range []string{"host-ctr", "ecs-gpu-init"} {
		path := filepath.Join(dir, "sources", m)
		if err := os.MkdirAll(path, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(path, "go.mod"), []byte("module x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sources", "models"), 0755); err != nil {
		t.Fatal(err)
	}

	p, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.GoModules()
	if err != nil {
		t.Fatalf("GoModules() = %v", err)
	}
	if diff := cmp.Diff([]string{"ecs-gpu-init", "host-ctr"}, got); diff != "" {
		t.Errorf("GoModules() mismatch (-want +got):\n%s", diff)
	}
}

func TestGoModulesNoSources(t *testing.T) {
	p, err := Load(filepath.Join(writeProject(t, sample), FileName))
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.GoModules()
	if err != nil || len(got) != 0 {
		t.Fatalf("GoModules() = (%v, %v), want empty", got, err)
	}
}
