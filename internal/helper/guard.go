package helper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/cruciblehq/twoliter/internal/image"
)

// Container backend for helper containers.
type Runtime interface {

	// Creates the helper container from an image.
	Start(ctx context.Context, name, image string) error

	// Copies a path out of the container into a host directory, producing
	// hostDir/<base of containerPath>.
	CopyOut(ctx context.Context, name, containerPath, hostDir string) error

	// Removes the container.
	Remove(ctx context.Context, name string) error
}

// Lifecycle of a [Guard].
type State int

const (
	Created State = iota
	InUse
	Releasing
	Released
)

// Returns the state name.
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case InUse:
		return "in-use"
	case Releasing:
		return "releasing"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Owner of a helper container and the host paths created for it.
type Guard struct {
	mu      sync.Mutex
	rt      Runtime  // Container backend, nil for a paths-only guard.
	name    string   // Container name.
	image   string   // Image the container was started from.
	created []string // Host paths to delete on release, in creation order.
	state   State    // Lifecycle state.
}

// Starts a helper container and returns the guard that owns it.
func Acquire(ctx context.Context, rt Runtime, name string, source image.ArchRef) (*Guard, error) {
	uri := source.URI()
	if err := rt.Start(ctx, name, uri); err != nil {
		return nil, fmt.Errorf("%w: start %s from %s: %w", ErrHelper, name, uri, err)
	}

	slog.Debug("helper container created", "name", name, "image", uri)

	return &Guard{rt: rt, name: name, image: uri, state: Created}, nil
}

// Returns a guard that owns only host paths.
func Files() *Guard {
	return &Guard{state: Created}
}

// Returns the container name, empty for a paths-only guard.
func (g *Guard) Name() string {
	return g.name
}

// Returns the current lifecycle state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Copies a path out of the helper container into hostDir.
func (g *Guard) CopyOut(ctx context.Context, containerPath, hostDir string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state >= Releasing {
		return ErrReleased
	}
	if g.rt == nil {
		return fmt.Errorf("%w: no container to copy from", ErrHelper)
	}
	g.state = InUse

	if err := g.rt.CopyOut(ctx, g.name, containerPath, hostDir); err != nil {
		return fmt.Errorf("%w: copy %s:%s to %s: %w", ErrHelper, g.name, containerPath, hostDir, err)
	}
	return nil
}

// Records a host path to delete on release.
func (g *Guard) Track(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state >= Releasing {
		return ErrReleased
	}
	g.created = append(g.created, path)
	return nil
}

// Removes the helper container and every tracked path.
//
// Paths are deleted newest first; paths that are already gone are ignored.
// All cleanup is attempted even when a step fails, and the failures are
// joined into the returned error. Only the first call does any work; later
// calls return nil.
func (g *Guard) Release(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state >= Releasing {
		return nil
	}
	g.state = Releasing

	var errs []error
	if g.rt != nil {
		if err := g.rt.Remove(ctx, g.name); err != nil {
			errs = append(errs, fmt.Errorf("remove container %s: %w", g.name, err))
		}
	}

	for i := len(g.created) - 1; i >= 0; i-- {
		path := g.created[i]
		if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}

	g.state = Released
	slog.Debug("transient resources released", "name", g.name, "paths", len(g.created))

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrRelease, errors.Join(errs...))
	}
	return nil
}
