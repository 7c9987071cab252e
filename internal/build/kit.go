package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cruciblehq/twoliter/internal/environ"
	"github.com/cruciblehq/twoliter/internal/helper"
	"github.com/cruciblehq/twoliter/internal/paths"
	"github.com/cruciblehq/twoliter/internal/project"
)

// Controls a kit build.
type KitOptions struct {
	Project                *project.Project // Project to build.
	Arch                   string           // Target architecture.
	Kit                    string           // Kit name.
	LookasideCache         string           // Source cache URL, empty for the default.
	UpstreamSourceFallback bool             // Fetch sources upstream when the cache misses.
}

// Builds a kit.
//
// Kits that do not ship a settings model still need sources/models to
// exist; when it is missing a placeholder is created for the duration of
// the build.
func Kit(ctx context.Context, env *Env, opts KitOptions) error {
	p := opts.Project

	slog.Info("building kit", "kit", opts.Kit, "arch", opts.Arch, "project", p.Dir())

	if err := installTools(env, p); err != nil {
		return err
	}

	sdk, err := p.SDK(opts.Arch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	img, err := env.Provisioner.EnsureImage(ctx, sdk, opts.Arch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	guard := helper.Files()
	defer release(ctx, guard)

	models := projectPath(p, "sources", "models")
	if info, err := os.Stat(models); err != nil || !info.IsDir() {
		slog.Debug("models source directory not found, creating a placeholder", "path", models)
		variant := filepath.Join(models, "src", "variant")
		if err := os.MkdirAll(variant, paths.DefaultDirMode); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, variant, err)
		}
		if err := guard.Track(models); err != nil {
			return fmt.Errorf("%w: %w", ErrBuild, err)
		}
	}

	modules, err := goModules(p)
	if err != nil {
		return err
	}

	overrides := append(baseVars(p, opts.Arch),
		environ.Var{Name: "BUILDSYS_KIT", Value: opts.Kit},
		environ.Var{Name: "BUILDSYS_SOURCES_DIR", Value: projectPath(p, "sources")},
		environ.Var{Name: "BUILDSYS_PACKAGES_DIR", Value: projectPath(p, "packages")},
		environ.Var{Name: "TLPRIVATE_SDK_IMAGE", Value: sdk.URI()},
		modules,
		environ.Var{Name: "BUILDSYS_UPSTREAM_SOURCE_FALLBACK", Value: strconv.FormatBool(opts.UpstreamSourceFallback)},
	)
	if opts.LookasideCache != "" {
		overrides = append(overrides, environ.Var{Name: "BUILDSYS_LOOKASIDE_CACHE", Value: opts.LookasideCache})
	}

	return runTask(ctx, env, p, task{name: "build-kit", overrides: overrides, image: &img})
}
