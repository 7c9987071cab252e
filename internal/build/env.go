package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/helper"
	"github.com/cruciblehq/twoliter/internal/image"
	"github.com/cruciblehq/twoliter/internal/mount"
	"github.com/cruciblehq/twoliter/internal/project"
	"github.com/cruciblehq/twoliter/internal/taskrun"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Builds the environment image.
type Provisioner interface {
	EnsureImage(ctx context.Context, base image.ArchRef, arch string) (image.Ref, error)
}

// Runs task-runner invocations.
type Runner interface {
	Invoke(ctx context.Context, inv taskrun.Invocation) error
}

// Collaborators shared by the build flows.
type Env struct {
	Provisioner Provisioner      // Environment image builder.
	Helpers     helper.Runtime   // Helper container backend.
	Runner      Runner           // Task runner.
	Surface     *environ.Surface // Environment allow-list.
	Planner     *mount.Planner   // Mount planner for containerized runs.
	Host        []string         // Host environment as NAME=VALUE entries.
	Tools       tools.Bundle     // Tool bundle to install.
}

// Task to run and what it needs.
type task struct {
	name      string           // Task name.
	args      []string         // Trailing arguments.
	overrides []environ.Var    // Orchestrator-injected variables.
	image     *image.Ref       // Environment image, nil to run on the host.
	declared  []mount.Declared // Paths to mount beyond the catalog.
}

// Installs the tool bundle into the project's tools directory.
func installTools(env *Env, p *project.Project) error {
	if err := tools.InstallBundle(p.ToolsDir(), env.Tools, false); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return nil
}

// Assembles the environment and mounts for a task and invokes it.
func runTask(ctx context.Context, env *Env, p *project.Project, t task) error {
	vars := env.Surface.Build(env.Host, t.overrides...)

	inv := taskrun.Invocation{
		Makefile: p.Makefile(),
		WorkDir:  p.Dir(),
		Env:      vars,
		Task:     t.name,
		Args:     t.args,
		Image:    t.image,
	}

	if t.image != nil {
		declared := append(mount.DeclaredFromEnv(vars, mount.Catalog()), t.declared...)
		mounts, err := env.Planner.Plan(p.Dir(), declared)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuild, err)
		}
		inv.Mounts = mounts
	}

	return env.Runner.Invoke(ctx, inv)
}

// Variables every task receives.
func baseVars(p *project.Project, arch string) []environ.Var {
	return []environ.Var{
		{Name: "TWOLITER_TOOLS_DIR", Value: p.ToolsDir()},
		{Name: "BUILDSYS_ROOT_DIR", Value: p.Dir()},
		{Name: "BUILDSYS_ARCH", Value: arch},
		{Name: "BUILDSYS_VERSION_IMAGE", Value: p.ReleaseVersion()},
	}
}

// Returns GO_MODULES, the space-separated module directories under sources/.
func goModules(p *project.Project) (environ.Var, error) {
	modules, err := p.GoModules()
	if err != nil {
		return environ.Var{}, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return environ.Var{Name: "GO_MODULES", Value: strings.Join(modules, " ")}, nil
}

// Returns a helper container name unique to this project and invocation.
func helperName(p *project.Project) string {
	return fmt.Sprintf("sdk-%s-%s", p.Token(), uuid.NewString()[:8])
}

// Releases a guard, logging rather than returning a failure.
//
// Runs detached from ctx so an interrupted build still cleans up.
func release(ctx context.Context, g *helper.Guard) {
	if err := g.Release(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to release transient resources", "name", g.Name(), "error", err)
	}
}

// Returns a path below the project directory.
func projectPath(p *project.Project, elem ...string) string {
	return filepath.Join(append([]string{p.Dir()}, elem...)...)
}
