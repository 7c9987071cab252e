package project

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/opencontainers/go-digest"

	"github.com/cruciblehq/twoliter/internal/image"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Name of the project file.
const FileName = "Twoliter.toml"

// Length of the project token in hex characters.
const tokenLength = 12

// SDK image coordinates from the project file.
type SDK struct {
	Registry string `toml:"registry"` // Registry host and path prefix.
	Name     string `toml:"name"`     // Image name without the architecture suffix.
	Version  string `toml:"version"`  // Image tag.
}

// Fields read from the project file.
type file struct {
	ReleaseVersion string `toml:"release-version"`
	SDK            *SDK   `toml:"sdk"`
}

// A loaded project.
type Project struct {
	path string // Canonical path of the project file.
	dir  string // Directory containing the project file.
	file file
}

// Reads a project file.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	var f file
	if _, err := toml.DecodeFile(abs, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, abs, err)
	}

	slog.Debug("loaded project", "path", abs, "release", f.ReleaseVersion)

	return &Project{path: abs, dir: filepath.Dir(abs), file: f}, nil
}

// Walks up from start looking for the project file.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or any parent directory", ErrNotFound, FileName, start)
		}
		dir = parent
	}
}

// Loads the project file at path, or searches from the working directory
// when path is empty.
func LoadOrFind(path string) (*Project, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		if path, err = Find(wd); err != nil {
			return nil, err
		}
	}
	return Load(path)
}

// Returns the canonical path of the project file.
func (p *Project) Path() string {
	return p.path
}

// Returns the project directory.
func (p *Project) Dir() string {
	return p.dir
}

// Returns the release version.
func (p *Project) ReleaseVersion() string {
	return p.file.ReleaseVersion
}

// Returns the directory the tool bundle is installed into.
func (p *Project) ToolsDir() string {
	return filepath.Join(p.dir, "build", "tools")
}

// Returns the task definition file inside the tools directory.
func (p *Project) Makefile() string {
	return filepath.Join(p.ToolsDir(), tools.Makefile)
}

// Returns a short identifier derived from the project directory.
//
// Two checkouts of the same project get different tokens, so their helper
// containers do not collide.
func (p *Project) Token() string {
	return digest.FromString(p.dir).Encoded()[:tokenLength]
}

// Returns the SDK image for an architecture.
func (p *Project) SDK(arch string) (image.ArchRef, error) {
	sdk := p.file.SDK
	if sdk == nil || sdk.Name == "" || sdk.Version == "" {
		return image.ArchRef{}, fmt.Errorf("%w: set [sdk] name and version in %s", ErrNoSDK, p.path)
	}
	return image.NewArchRef(sdk.Registry, sdk.Name, arch, sdk.Version), nil
}

// Returns the directories under sources/ that contain a go.mod, relative to
// sources/ and sorted.
func (p *Project) GoModules() ([]string, error) {
	sources := filepath.Join(p.dir, "sources")
	entries, err := os.ReadDir(sources)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, sources, err)
	}

	var modules []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(sources, e.Name(), "go.mod")); err == nil {
			modules = append(modules, e.Name())
		}
	}
	slices.Sort(modules)
	return modules, nil
}
