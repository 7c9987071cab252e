package cli

import (
	"fmt"
	"os"

	"github.com/cruciblehq/twoliter/internal"
	"github.com/cruciblehq/twoliter/internal/build"
	"github.com/cruciblehq/twoliter/internal/docker"
	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/helper"
	"github.com/cruciblehq/twoliter/internal/mount"
	"github.com/cruciblehq/twoliter/internal/paths"
	"github.com/cruciblehq/twoliter/internal/proc"
	"github.com/cruciblehq/twoliter/internal/provision"
	"github.com/cruciblehq/twoliter/internal/runtime"
	"github.com/cruciblehq/twoliter/internal/settings"
	"github.com/cruciblehq/twoliter/internal/taskrun"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Docker daemon socket, mounted so tasks can run containers of their own.
const dockerSocket = "/var/run/docker.sock"

// Wires the build collaborators from the settings.
//
// The returned function closes any daemon connection and must be called
// when the command finishes.
func newEnv(s *settings.Settings) (*build.Env, func(), error) {
	mode := proc.Buffered
	if internal.StreamOutput() {
		mode = proc.Streamed
	}

	cache := paths.Cache()
	if err := os.MkdirAll(cache, paths.DefaultDirMode); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", build.ErrFileSystemOperation, cache, err)
	}

	client := docker.New(s.Docker, mode)
	bundle := tools.Default()

	env := &build.Env{
		Provisioner: provision.New(client, bundle).WithTempDir(cache),
		Helpers:     helper.NewDocker(client),
		Runner:      taskrun.New(s.Cargo, client, mode),
		Surface:     environ.New(s.Rules()),
		Planner:     mount.NewPlanner(hostMounts()...),
		Host:        os.Environ(),
		Tools:       bundle,
	}

	if s.Runtime != settings.RuntimeContainerd {
		return env, func() {}, nil
	}

	rt, err := runtime.New(s.Containerd.Address, s.Containerd.Namespace)
	if err != nil {
		return nil, nil, err
	}
	env.Helpers = helper.NewContainerd(rt.WithSnapshotter(s.Containerd.Snapshotter))

	return env, func() { rt.Close() }, nil
}

// Host paths every containerized task sees: the docker socket, when
// present, and the temp directory for tools that create scratch files.
func hostMounts() []mount.Spec {
	var specs []mount.Spec
	if _, err := os.Stat(dockerSocket); err == nil {
		specs = append(specs, mount.Identity(dockerSocket, mount.File))
	}
	return append(specs, mount.Identity(os.TempDir(), mount.Dir))
}
