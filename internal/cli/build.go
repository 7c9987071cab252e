package cli

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/twoliter/internal/build"
	"github.com/cruciblehq/twoliter/internal/project"
	"github.com/cruciblehq/twoliter/internal/settings"
)

// Represents the 'twoliter build' command group.
type BuildCmd struct {
	Variant BuildVariantCmd `cmd:"" help:"Build a variant image."`
	Kit     BuildKitCmd     `cmd:"" help:"Build a kit."`
	Clean   BuildCleanCmd   `cmd:"" help:"Remove build outputs."`
}

// Flags shared by commands that act on a project.
type ProjectFlags struct {
	ProjectPath string `help:"Path to Twoliter.toml. Searched for upward from the working directory when absent." placeholder:"PATH" type:"path"`
}

// Loads the project named by --project-path, or searches for one.
func (f ProjectFlags) load() (*project.Project, error) {
	p, err := project.LoadOrFind(f.ProjectPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("using project", "path", p.Path(), "release", p.ReleaseVersion())
	return p, nil
}

// Flags shared by commands that build for an architecture.
type ArchFlags struct {
	Arch string `default:"x86_64" help:"Architecture to build for."`
}

// Represents the 'twoliter build variant' command.
type BuildVariantCmd struct {
	ProjectFlags `embed:""`
	ArchFlags    `embed:""`

	Variant                string `arg:"" help:"Variant to build."`
	LookasideCache         string `help:"URL of the lookaside cache for package sources." placeholder:"URL"`
	UpstreamSourceFallback bool   `help:"Fetch sources from upstream when the lookaside cache misses."`
	InfraConfig            string `help:"Path to Infra.toml." placeholder:"PATH" type:"path"`
}

// Executes the build variant command.
func (c *BuildVariantCmd) Run(ctx context.Context, s *settings.Settings) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	env, done, err := newEnv(s)
	if err != nil {
		return err
	}
	defer done()

	return build.Variant(ctx, env, build.VariantOptions{
		Project:                p,
		Arch:                   c.Arch,
		Variant:                c.Variant,
		LookasideCache:         c.LookasideCache,
		UpstreamSourceFallback: c.UpstreamSourceFallback,
		InfraConfig:            c.InfraConfig,
	})
}

// Represents the 'twoliter build kit' command.
type BuildKitCmd struct {
	ProjectFlags `embed:""`
	ArchFlags    `embed:""`

	Kit                    string `arg:"" help:"Kit to build."`
	LookasideCache         string `help:"URL of the lookaside cache for package sources." placeholder:"URL"`
	UpstreamSourceFallback bool   `help:"Fetch sources from upstream when the lookaside cache misses."`
}

// Executes the build kit command.
func (c *BuildKitCmd) Run(ctx context.Context, s *settings.Settings) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	env, done, err := newEnv(s)
	if err != nil {
		return err
	}
	defer done()

	return build.Kit(ctx, env, build.KitOptions{
		Project:                p,
		Arch:                   c.Arch,
		Kit:                    c.Kit,
		LookasideCache:         c.LookasideCache,
		UpstreamSourceFallback: c.UpstreamSourceFallback,
	})
}

// Represents the 'twoliter build clean' command.
type BuildCleanCmd struct {
	ProjectFlags `embed:""`
}

// Executes the build clean command.
func (c *BuildCleanCmd) Run(ctx context.Context, s *settings.Settings) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	env, done, err := newEnv(s)
	if err != nil {
		return err
	}
	defer done()

	return build.Clean(ctx, env, p)
}
