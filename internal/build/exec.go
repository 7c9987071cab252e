package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/mount"
	"github.com/cruciblehq/twoliter/internal/project"
)

// Controls an arbitrary task run.
type ExecOptions struct {
	Project       *project.Project // Project to run in.
	Arch          string           // Target architecture.
	Task          string           // Task name.
	Args          []string         // Trailing task arguments.
	CargoHome     string           // CARGO_HOME for the build, empty to leave unset.
	TestFile      string           // Test definition file to mount.
	Containerized bool             // Run inside the environment image.
}

// Runs a single task.
//
// On the host the task sees the project as-is. Containerized, the
// environment image is built first and the host paths named by the
// environment are mounted; the test file comes from TestFile or, failing
// that, from a "testsys test -f <path>" sequence in the task and its arguments.
func Exec(ctx context.Context, env *Env, opts ExecOptions) error {
	p := opts.Project

	slog.Info("running task", "task", opts.Task, "args", opts.Args, "containerized", opts.Containerized)

	if err := installTools(env, p); err != nil {
		return err
	}

	overrides := baseVars(p, opts.Arch)
	if opts.CargoHome != "" {
		overrides = append(overrides, environ.Var{Name: "CARGO_HOME", Value: opts.CargoHome})
	}

	t := task{name: opts.Task, args: opts.Args, overrides: overrides}

	if opts.Containerized {
		sdk, err := p.SDK(opts.Arch)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuild, err)
		}
		img, err := env.Provisioner.EnsureImage(ctx, sdk, opts.Arch)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuild, err)
		}
		t.image = &img

		if file := testFile(opts); file != "" {
			t.declared = append(t.declared, mount.Declared{Path: file, Kind: mount.File, Policy: mount.NoCreate})
		}
	}

	return runTask(ctx, env, p, t)
}

// Returns the test file to mount, preferring the explicit option.
//
// The scan covers the task name too, since "testsys" is usually the task.
func testFile(opts ExecOptions) string {
	if opts.TestFile != "" {
		return opts.TestFile
	}
	if file, ok := mount.FindTestFileArg(append([]string{opts.Task}, opts.Args...)); ok {
		slog.Debug("found test file in task arguments", "path", file)
		return file
	}
	return ""
}
