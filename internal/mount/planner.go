package mount

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cruciblehq/twoliter/internal/paths"
)

// Resolves declared paths into mount specs.
type Planner struct {
	extra []Spec // Mounts added to every plan.
}

// Creates a planner that adds extra to every plan.
//
// Extra mounts are never created. An existing extra source is canonicalized
// and keeps its destination, so a socket reached through a symlinked
// directory still appears where the container expects it. A missing extra is
// mounted as given.
func NewPlanner(extra ...Spec) *Planner {
	return &Planner{extra: extra}
}

// Resolves the project directory and declared paths into mounts.
//
// The canonical project directory is always mounted. For each declared path:
// an existing path is mounted as-is; a missing path outside the project with
// the [Create] policy is created (a file gets its parent directory created
// and mounted instead); a missing path inside the project is skipped since
// the project mount covers it; anything else fails with [ErrUnresolvedPath].
// The result holds one spec per canonical source, sorted by source.
func (p *Planner) Plan(projectDir string, declared []Declared) ([]Spec, error) {
	project, err := canonicalize(projectDir)
	if err != nil {
		return nil, err
	}
	projectAbs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvedPath, projectDir, err)
	}

	set := make(map[string]Spec)
	add := func(s Spec) {
		if _, ok := set[s.Source]; ok {
			return
		}
		slog.Debug("adding mount", "source", s.Source, "destination", s.Destination)
		set[s.Source] = s
	}

	add(Identity(project, Dir))
	for _, s := range p.extra {
		s, err := canonicalExtra(s)
		if err != nil {
			return nil, err
		}
		add(s)
	}

	for _, d := range declared {
		s, ok, err := resolve(d, project, projectAbs)
		if err != nil {
			return nil, err
		}
		if ok {
			add(s)
		}
	}

	specs := make([]Spec, 0, len(set))
	for _, s := range set {
		specs = append(specs, s)
	}
	slices.SortFunc(specs, func(a, b Spec) int {
		return strings.Compare(a.Source, b.Source)
	})
	return specs, nil
}

// Replaces the source of an existing extra mount with its canonical path.
func canonicalExtra(s Spec) (Spec, error) {
	if _, err := os.Lstat(s.Source); errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	source, err := canonicalize(s.Source)
	if err != nil {
		return Spec{}, err
	}
	s.Source = source
	return s, nil
}

// Applies the missing-path rules to one declared path.
//
// Returns false when the path is skipped.
func resolve(d Declared, project, projectAbs string) (Spec, bool, error) {
	path, err := filepath.Abs(d.Path)
	if err != nil {
		return Spec{}, false, fmt.Errorf("%w: %s: %w", ErrUnresolvedPath, d.Path, err)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		source, err := canonicalize(path)
		if err != nil {
			return Spec{}, false, err
		}
		return Identity(source, kindOf(info)), true, nil

	case !errors.Is(err, fs.ErrNotExist):
		return Spec{}, false, fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, path, err)
	}

	inProject := within(path, project) || within(path, projectAbs)

	switch {
	case d.Policy == Create && !inProject:
		dir := path
		if d.Kind == File {
			dir = filepath.Dir(path)
		}
		slog.Debug("creating directory for mount", "path", dir, "declared", d.Path)
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return Spec{}, false, fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, dir, err)
		}
		source, err := canonicalize(dir)
		if err != nil {
			return Spec{}, false, err
		}
		return Identity(source, Dir), true, nil

	case inProject:
		slog.Debug("skipping missing path inside the project", "path", path)
		return Spec{}, false, nil

	default:
		return Spec{}, false, fmt.Errorf("%w: %s does not exist", ErrUnresolvedPath, path)
	}
}

// Returns the absolute path with all symlinks resolved.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnresolvedPath, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnresolvedPath, path, err)
	}
	return resolved, nil
}

// Reports whether path is dir or lies beneath it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func kindOf(info fs.FileInfo) Kind {
	if info.IsDir() {
		return Dir
	}
	return File
}
