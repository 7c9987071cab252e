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

// Absolute, so docker cp and the containerd tar copy resolve them alike.
const (

	// Prebuilt SDK packages inside the SDK image.
	sdkRPMsPath = "/twoliter/alpha/build/rpms"

	// Key generation script inside the SDK image.
	sbkeysScriptPath = "/twoliter/alpha/sbkeys/generate-local-sbkeys"
)

// Controls a variant build.
type VariantOptions struct {
	Project                *project.Project // Project to build.
	Arch                   string           // Target architecture.
	Variant                string           // Variant name.
	LookasideCache         string           // Source cache URL, empty for the default.
	UpstreamSourceFallback bool             // Fetch sources upstream when the cache misses.
	InfraConfig            string           // Infra.toml path, empty for none.
}

// Builds a variant image.
//
// The SDK's prebuilt packages are copied into build/rpms and, when the
// project has no sbkeys directory, one is created holding the SDK's key
// generation script. The helper container and its scratch directory are
// released before returning.
func Variant(ctx context.Context, env *Env, opts VariantOptions) error {
	p := opts.Project

	slog.Info("building variant", "variant", opts.Variant, "arch", opts.Arch, "project", p.Dir())

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

	guard, err := helper.Acquire(ctx, env.Helpers, helperName(p), sdk)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	defer release(ctx, guard)

	if err := copySDKPackages(ctx, guard, p); err != nil {
		return err
	}

	sbkeys := projectPath(p, "sbkeys")
	if err := ensureSBKeys(ctx, guard, sbkeys); err != nil {
		return err
	}

	modules, err := goModules(p)
	if err != nil {
		return err
	}

	overrides := append(baseVars(p, opts.Arch),
		environ.Var{Name: "BUILDSYS_VARIANT", Value: opts.Variant},
		environ.Var{Name: "BUILDSYS_SBKEYS_DIR", Value: sbkeys},
		modules,
		environ.Var{Name: "BUILDSYS_UPSTREAM_SOURCE_FALLBACK", Value: strconv.FormatBool(opts.UpstreamSourceFallback)},
	)
	if opts.LookasideCache != "" {
		overrides = append(overrides, environ.Var{Name: "BUILDSYS_LOOKASIDE_CACHE", Value: opts.LookasideCache})
	}
	if opts.InfraConfig != "" {
		overrides = append(overrides, environ.Var{Name: "PUBLISH_INFRA_CONFIG_PATH", Value: opts.InfraConfig})
	}

	return runTask(ctx, env, p, task{name: "build", overrides: overrides, image: &img})
}

// Copies the SDK's prebuilt packages into build/rpms.
//
// The packages land in a scratch directory inside the project first, so the
// final move is a rename on the same file system.
func copySDKPackages(ctx context.Context, guard *helper.Guard, p *project.Project) error {
	scratch, err := os.MkdirTemp(p.Dir(), ".twoliter-")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	if err := guard.Track(scratch); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	staged := filepath.Join(scratch, "sdk_rpms")
	if err := os.MkdirAll(staged, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, staged, err)
	}

	if err := guard.CopyOut(ctx, sdkRPMsPath, staged); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	return moveEntries(filepath.Join(staged, filepath.Base(sdkRPMsPath)), projectPath(p, "build", "rpms"))
}

// Creates the sbkeys directory with the SDK's key generation script, unless
// the project already has one.
func ensureSBKeys(ctx context.Context, guard *helper.Guard, dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}

	slog.Debug("sbkeys directory not found, creating it", "path", dir)

	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, dir, err)
	}
	if err := guard.CopyOut(ctx, sbkeysScriptPath, dir); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return nil
}

// Moves every entry of src into dst, creating dst and replacing entries of
// the same name.
func moveEntries(src, dst string) error {
	if err := os.MkdirAll(dst, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, src, err)
	}

	for _, e := range entries {
		from, to := filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())
		slog.Debug("moving", "from", from, "to", to)
		if err := os.RemoveAll(to); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, to, err)
		}
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, from, err)
		}
	}
	return nil
}
