package helper

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cruciblehq/twoliter/internal/archive"
	"github.com/cruciblehq/twoliter/internal/runtime"
)

// Source of tar streams from a running container.
type tarSource interface {
	CopyFrom(ctx context.Context, w io.Writer, path string) error
	Destroy(ctx context.Context) error
}

// [Runtime] backed by a containerd daemon.
type Containerd struct {
	start func(ctx context.Context, ref, id string) (tarSource, error)

	mu         sync.Mutex
	containers map[string]tarSource
}

// Creates a containerd-backed runtime.
func NewContainerd(rt *runtime.Runtime) *Containerd {
	return newContainerd(func(ctx context.Context, ref, id string) (tarSource, error) {
		ctr, err := rt.StartHelper(ctx, ref, id)
		if err != nil {
			return nil, err
		}
		return ctr, nil
	})
}

func newContainerd(start func(ctx context.Context, ref, id string) (tarSource, error)) *Containerd {
	return &Containerd{start: start, containers: make(map[string]tarSource)}
}

// Implements [Runtime].
func (c *Containerd) Start(ctx context.Context, name, image string) error {
	ctr, err := c.start(ctx, image, name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.containers[name] = ctr
	c.mu.Unlock()
	return nil
}

// Implements [Runtime].
//
// The container's tar stream is piped straight into the host extractor; the
// two sides run concurrently and the first failure cancels the other.
func (c *Containerd) CopyOut(ctx context.Context, name, containerPath, hostDir string) error {
	ctr, err := c.lookup(name)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := ctr.CopyFrom(ctx, pw, containerPath)
		pw.CloseWithError(err)
		return err
	})

	g.Go(func() error {
		err := archive.Untar(pr, hostDir)
		if err == nil {
			// Drain the record padding after the end-of-archive marker.
			_, err = io.Copy(io.Discard, pr)
		}
		pr.CloseWithError(err)
		return err
	})

	return g.Wait()
}

// Implements [Runtime].
func (c *Containerd) Remove(ctx context.Context, name string) error {
	ctr, err := c.lookup(name)
	if err != nil {
		return err
	}
	if err := ctr.Destroy(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.containers, name)
	c.mu.Unlock()
	return nil
}

func (c *Containerd) lookup(name string) (tarSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctr, ok := c.containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown container %s", ErrHelper, name)
	}
	return ctr, nil
}
