package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/twoliter/internal"
	"github.com/cruciblehq/twoliter/internal/cli"
	"github.com/cruciblehq/twoliter/internal/proc"
)

// The entry point for twoliter.
//
// Initializes logging and executes the root command. A failed task exits with
// the task's own exit code; any other failure exits with 1.
func main() {
	slog.SetDefault(cli.NewLogger(os.Stderr, internal.LogLevel()))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("twoliter is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(proc.ExitCode(err))
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
