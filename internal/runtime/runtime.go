package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/platforms"
	"github.com/distribution/reference"
)

const (

	// Snapshotter used for helper container filesystems.
	DefaultSnapshotter = "overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Manages the containerd client and the helper containers started from it.
type Runtime struct {
	client      *containerd.Client // Containerd client for managing containers and images.
	snapshotter string             // Snapshotter for unpacked layers and container roots.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to a single tenant. The
// runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return &Runtime{client: client, snapshotter: DefaultSnapshotter}, nil
}

// Selects a snapshotter other than [DefaultSnapshotter].
//
// Rootless daemons typically need "fuse-overlayfs". An empty name keeps the
// current one.
func (rt *Runtime) WithSnapshotter(name string) *Runtime {
	if name != "" {
		rt.snapshotter = name
	}
	return rt
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Pulls an image for the host platform and starts a helper container from it.
//
// The reference is normalized the way docker does, so "name:tag" resolves on
// Docker Hub. Layers are unpacked into the snapshotter during the pull. Any
// stale container with the same ID is removed before the new one is created.
// The container runs "sleep infinity" so later copies have a task to attach
// to.
func (rt *Runtime) StartHelper(ctx context.Context, ref, id string) (*Container, error) {
	name, err := normalize(ref)
	if err != nil {
		return nil, err
	}

	platform := defaultPlatform()
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	image, err := rt.client.Pull(ctx, name,
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(rt.snapshotter),
		containerd.WithPlatformMatcher(platforms.Only(p)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pull %s: %w", ErrRuntime, name, err)
	}

	c := &Container{
		client:      rt.client,
		id:          id,
		platform:    platform,
		snapshotter: rt.snapshotter,
	}

	c.remove(ctx)

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrRuntime, id, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: start %s: %w", ErrRuntime, id, err)
	}

	slog.Debug("helper container started", "id", id, "image", name)

	return c, nil
}

// Expands a docker-style reference into the fully qualified form containerd
// expects (e.g., "sdk:v1" becomes "docker.io/library/sdk:v1").
func normalize(ref string) (string, error) {
	named, err := reference.ParseDockerRef(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrReference, ref, err)
	}
	return named.String(), nil
}

// Returns the default OCI platform for the host architecture.
func defaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}
