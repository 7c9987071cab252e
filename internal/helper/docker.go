package helper

import (
	"context"

	"github.com/cruciblehq/twoliter/internal/docker"
)

// [Runtime] backed by the docker CLI.
//
// The helper container is created but never started; "docker cp" reads
// from stopped containers.
type Docker struct {
	client *docker.Client
}

// Creates a docker-backed runtime.
func NewDocker(client *docker.Client) *Docker {
	return &Docker{client: client}
}

// Implements [Runtime].
func (d *Docker) Start(ctx context.Context, name, image string) error {
	return d.client.Create(ctx, name, image)
}

// Implements [Runtime].
func (d *Docker) CopyOut(ctx context.Context, name, containerPath, hostDir string) error {
	return d.client.CopyOut(ctx, name, containerPath, hostDir)
}

// Implements [Runtime].
func (d *Docker) Remove(ctx context.Context, name string) error {
	return d.client.Remove(ctx, name)
}
