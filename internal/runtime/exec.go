package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Sequence counter for exec process identifiers.
var execSeq atomic.Uint64

// Returns a unique exec process identifier.
func nextExecID() string {
	return fmt.Sprintf("exec-%d", execSeq.Add(1))
}

// Runs a command inside the container's task and waits for it.
//
// Stdout goes to w (discarded when nil), stderr is captured and returned. A
// non-zero exit code is not an error; the caller decides.
func (c *Container) execCommand(ctx context.Context, w io.Writer, args ...string) (int, string, error) {
	pspec, err := c.processSpec(ctx, args)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	task, err := c.loadTask(ctx)
	if err != nil {
		return 0, "", err
	}

	if w == nil {
		w = io.Discard
	}
	var stderr bytes.Buffer

	process, err := task.Exec(ctx, nextExecID(), pspec, cio.NewCreator(cio.WithStreams(nil, w, &stderr)))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	code, err := awaitProcess(ctx, process)
	if err != nil {
		return 0, "", err
	}
	return code, stderr.String(), nil
}

// Derives the process spec for an exec from the container's own spec.
//
// Only the arguments change, and the exec never gets a terminal.
func (c *Container) processSpec(ctx context.Context, args []string) (*specs.Process, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, err
	}

	spec, err := ctr.Spec(ctx)
	if err != nil {
		return nil, err
	}

	pspec := *spec.Process
	pspec.Terminal = false
	pspec.Args = args
	return &pspec, nil
}

// Loads the container's running task.
func (c *Container) loadTask(ctx context.Context) (containerd.Task, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	task, err := ctr.Task(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return task, nil
}

// Starts an exec process, blocks until it exits, and returns its exit code.
//
// Wait is registered before Start so a fast exit is not missed. The process
// is always deleted before returning.
func awaitProcess(ctx context.Context, process containerd.Process) (int, error) {
	statusC, err := process.Wait(ctx)
	if err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := process.Start(ctx); err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	exitStatus := <-statusC
	process.Delete(ctx)

	code, _, err := exitStatus.Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return int(code), nil
}
