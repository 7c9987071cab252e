package build

import (
	"fmt"

	"github.com/cruciblehq/twoliter/internal/project"
	"github.com/cruciblehq/twoliter/internal/tools"
)

// Installs the tool bundle into the project's tools directory.
//
// Force reinstalls even when the installed bundle is current.
func InstallTools(p *project.Project, bundle tools.Bundle, force bool) error {
	if err := tools.InstallBundle(p.ToolsDir(), bundle, force); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return nil
}
