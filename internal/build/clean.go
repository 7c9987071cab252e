package build

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/project"
)

// Removes build outputs by running the clean task on the host.
func Clean(ctx context.Context, env *Env, p *project.Project) error {
	slog.Info("cleaning", "project", p.Dir())

	if err := installTools(env, p); err != nil {
		return err
	}

	overrides := []environ.Var{
		{Name: "TWOLITER_TOOLS_DIR", Value: p.ToolsDir()},
		{Name: "BUILDSYS_ROOT_DIR", Value: p.Dir()},
	}
	return runTask(ctx, env, p, task{name: "clean", overrides: overrides})
}
