package cli

import (
	"context"

	"github.com/cruciblehq/twoliter/internal/build"
	"github.com/cruciblehq/twoliter/internal/settings"
)

// Represents the 'twoliter exec' command.
//
// Flags for twoliter go before the task name. The task name and everything
// after it are passed to the task runner unparsed.
type ExecCmd struct {
	ProjectFlags `embed:""`
	ArchFlags    `embed:""`

	CargoHome     string   `help:"CARGO_HOME for the build, kept separate from the user's own." placeholder:"DIR" type:"path"`
	TestFile      string   `help:"Test definition file to mount into the build environment." placeholder:"PATH" type:"path"`
	Containerized bool     `help:"Run the task inside the environment image."`
	Cmd           []string `arg:"" passthrough:"all" name:"task" help:"Task to run (e.g., build), followed by its arguments."`
}

// Executes the exec command.
func (c *ExecCmd) Run(ctx context.Context, s *settings.Settings) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	env, done, err := newEnv(s)
	if err != nil {
		return err
	}
	defer done()

	return build.Exec(ctx, env, build.ExecOptions{
		Project:       p,
		Arch:          c.Arch,
		Task:          c.Cmd[0],
		Args:          c.Cmd[1:],
		CargoHome:     c.CargoHome,
		TestFile:      c.TestFile,
		Containerized: c.Containerized,
	})
}
