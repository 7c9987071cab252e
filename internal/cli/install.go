package cli

import (
	"context"

	"github.com/cruciblehq/twoliter/internal/build"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Represents the 'twoliter install' command group.
type InstallCmd struct {
	Tools InstallToolsCmd `cmd:"" help:"Install the tool bundle into the project."`
}

// Represents the 'twoliter install tools' command.
type InstallToolsCmd struct {
	ProjectFlags `embed:""`

	Force bool `help:"Reinstall even if the installed tools are current."`
}

// Executes the install tools command.
func (c *InstallToolsCmd) Run(ctx context.Context) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	return build.InstallTools(p, tools.Default(), c.Force)
}
