package docker

import (
	"context"
	"fmt"

	"github.com/cruciblehq/twoliter/internal/proc"
)

// Name of the docker binary when none is configured.
const DefaultBinary = "docker"

// Docker command-line client.
type Client struct {
	Binary string    // docker executable, [DefaultBinary] when empty.
	Output proc.Mode // Output handling for long-running commands (build).
}

// Creates a client for the given binary.
func New(binary string, output proc.Mode) *Client {
	return &Client{Binary: binary, Output: output}
}

// Single --build-arg value. Order is preserved on the command line.
type BuildArg struct {
	Name  string
	Value string
}

// Parameters for [Client.Build].
type BuildOptions struct {
	Dockerfile string     // Path to the Dockerfile.
	Tag        string     // Tag for the resulting image.
	Context    string     // Build context directory.
	Args       []BuildArg // Build arguments.
}

// Builds an image with BuildKit enabled.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	return c.run(ctx, c.Output, []string{"DOCKER_BUILDKIT=1"}, BuildArgs(opts)...)
}

// Returns the argument vector for "docker build", without the binary.
func BuildArgs(opts BuildOptions) []string {
	args := []string{"build", "--file", opts.Dockerfile, "--tag", opts.Tag}
	for _, a := range opts.Args {
		args = append(args, fmt.Sprintf("--build-arg=%s=%s", a.Name, a.Value))
	}
	return append(args, opts.Context)
}

// Creates a stopped container from an image.
//
// The container is never started; it only exists so files can be copied out
// of the image's filesystem.
func (c *Client) Create(ctx context.Context, name, image string) error {
	return c.run(ctx, proc.Buffered, nil, "create", "--name", name, image)
}

// Copies a path out of a container into a host directory.
func (c *Client) CopyOut(ctx context.Context, name, src, dst string) error {
	return c.run(ctx, proc.Buffered, nil, "cp", name+":"+src, dst)
}

// Removes a container, stopping it first if needed.
func (c *Client) Remove(ctx context.Context, name string) error {
	return c.run(ctx, proc.Buffered, nil, "rm", "--force", name)
}

// Returns the binary name used to invoke docker.
func (c *Client) Bin() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c *Client) run(ctx context.Context, mode proc.Mode, env []string, args ...string) error {
	err := proc.Run(ctx, mode, proc.Command{Name: c.Bin(), Args: args, Env: env})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDocker, args[0], err)
	}
	return nil
}
