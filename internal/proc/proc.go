package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Output handling for a child process.
type Mode int

const (

	// Captures output and reports it only on failure.
	Buffered Mode = iota

	// Connects the child to the terminal.
	Streamed
)

// Returns the mode name.
func (m Mode) String() string {
	switch m {
	case Buffered:
		return "buffered"
	case Streamed:
		return "streamed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Program invocation.
type Command struct {
	Name   string    // Program to run, looked up in PATH when not a path.
	Args   []string  // Arguments, excluding the program name.
	Env    []string  // Extra NAME=VALUE entries appended to the inherited environment.
	Dir    string    // Working directory, empty for the current one.
	Stdout io.Writer // Streamed destination for stdout, defaults to os.Stdout.
	Stderr io.Writer // Streamed destination for stderr, defaults to os.Stderr.
}

// Returns the command line as a single space-separated string.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Process that ran but exited unsuccessfully.
//
// Stdout and Stderr hold the captured output in [Buffered] mode and are
// empty in [Streamed] mode, where the output already reached the terminal.
type ExitError struct {
	Command string // Command line that was run.
	Code    int    // Exit status, -1 when terminated by a signal.
	Stdout  string // Captured standard output.
	Stderr  string // Captured standard error.
}

// Implements the error interface.
func (e *ExitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: '%s' exited with status %d", ErrExit, e.Command, e.Code)
	if e.Stdout != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", strings.TrimRight(e.Stdout, "\n"))
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", strings.TrimRight(e.Stderr, "\n"))
	}
	return b.String()
}

// Matches [ErrExit].
func (e *ExitError) Is(target error) bool {
	return target == ErrExit
}

// Runs a command to completion.
//
// Returns an [*ExitError] when the program exits with a non-zero status, or
// an error wrapping [ErrStart] when it cannot be started at all. Cancelling
// ctx kills the program.
func Run(ctx context.Context, mode Mode, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	switch mode {
	case Streamed:
		cmd.Stdin = os.Stdin
		cmd.Stdout = orDefault(c.Stdout, os.Stdout)
		cmd.Stderr = orDefault(c.Stderr, os.Stderr)
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	slog.Debug("running command", "command", c.String(), "mode", mode)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command: c.String(),
			Code:    exitErr.ExitCode(),
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
		}
	}

	return fmt.Errorf("%w: %s: %w", ErrStart, c.Name, err)
}

// Returns the exit status carried by err, or 1 for any other failure.
//
// A nil error maps to 0. Signal terminations map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
