package taskrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strconv"

	"github.com/google/uuid"

	"github.com/cruciblehq/twoliter/internal/docker"
	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/image"
	"github.com/cruciblehq/twoliter/internal/mount"
	"github.com/cruciblehq/twoliter/internal/proc"
)

// Name of the cargo binary when none is configured.
const DefaultCargo = "cargo"

// Single task-runner call.
type Invocation struct {
	Makefile string        // Task definition file.
	WorkDir  string        // Working directory for the task runner.
	Env      *environ.Vars // Variables passed with -e, in order.
	Task     string        // Task name.
	Args     []string      // Trailing arguments.
	Mounts   []mount.Spec  // Host paths visible to a containerized run.
	Image    *image.Ref    // Environment image, nil to run on the host.
	Name     string        // Container name, generated when empty.
}

// Runs cargo-make invocations.
type Runner struct {
	cargo  string         // cargo executable.
	docker *docker.Client // Client for containerized runs.
	mode   proc.Mode      // Output handling.
}

// Creates a runner.
//
// An empty cargo name selects [DefaultCargo].
func New(cargo string, client *docker.Client, mode proc.Mode) *Runner {
	if cargo == "" {
		cargo = DefaultCargo
	}
	return &Runner{cargo: cargo, docker: client, mode: mode}
}

// Returns the cargo argument vector for an invocation, without "cargo".
func Args(inv Invocation) []string {
	args := []string{
		"make",
		"--disable-check-for-updates",
		"--makefile", inv.Makefile,
		"--cwd", inv.WorkDir,
	}
	if inv.Env != nil {
		for name, value := range inv.Env.All() {
			args = append(args, "-e", name+"="+value)
		}
	}
	args = append(args, inv.Task)
	return append(args, inv.Args...)
}

// Returns the process to run for an invocation.
func (r *Runner) Command(inv Invocation) proc.Command {
	cargo := append([]string{r.cargo}, Args(inv)...)
	if inv.Image == nil {
		return proc.Command{Name: cargo[0], Args: cargo[1:]}
	}

	name := inv.Name
	if name == "" {
		name = "twoliter-" + uuid.NewString()[:8]
	}

	mounts := make([]docker.Mount, len(inv.Mounts))
	for i, m := range inv.Mounts {
		mounts[i] = docker.Mount{Source: m.Source, Target: m.Destination, ReadOnly: m.ReadOnly}
	}

	return proc.Command{
		Name: r.docker.Bin(),
		Args: docker.RunArgs(docker.RunOptions{
			Name:    name,
			Image:   inv.Image.URI(),
			Network: "host",
			User:    strconv.Itoa(os.Getuid()),
			Groups:  dockerGroup(),
			Mounts:  mounts,
			WorkDir: inv.WorkDir,
			Command: cargo,
		}),
	}
}

// Runs an invocation to completion.
//
// A non-zero exit of the task runner yields an error wrapping both
// [ErrTask] and the [*proc.ExitError] with its code.
func (r *Runner) Invoke(ctx context.Context, inv Invocation) error {
	cmd := r.Command(inv)

	slog.Info("running task", "task", inv.Task, "containerized", inv.Image != nil)

	if err := proc.Run(ctx, r.mode, cmd); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTask, inv.Task, err)
	}
	return nil
}

// Returns the host's docker group ID so the container user can reach the
// daemon socket, or nothing when the group does not exist.
func dockerGroup() []string {
	g, err := user.LookupGroup("docker")
	if err != nil {
		return nil
	}
	return []string{g.Gid}
}
