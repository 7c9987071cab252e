package provision

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/twoliter/internal/docker"
	"github.com/cruciblehq/twoliter/internal/image"
	"github.com/cruciblehq/twoliter/internal/paths"
	"github.com/cruciblehq/twoliter/internal/tools"
)

const (

	// File name of the Dockerfile inside the scratch directory.
	dockerfileName = "Twoliter.dockerfile"

	// Build context directory inside the scratch directory.
	contextDir = "context"

	// Directory inside the build context that receives the tool bundle.
	filesDir = "files"

	// Repository of the environment image.
	imageRepo = "twoliter"
)

//go:embed Twoliter.dockerfile
var dockerfile []byte

// Image build backend.
//
// [*docker.Client] is the production implementation.
type Builder interface {
	Build(ctx context.Context, opts docker.BuildOptions) error
}

// Builds environment images from an SDK image and a tool bundle.
type Provisioner struct {
	builder Builder      // Image builder.
	bundle  tools.Bundle // Tools copied into the image.
	tmpDir  string       // Parent of scratch directories, empty for the system default.
}

// Creates a provisioner.
func New(builder Builder, bundle tools.Bundle) *Provisioner {
	return &Provisioner{builder: builder, bundle: bundle}
}

// Places scratch build contexts under dir instead of the system temp dir.
func (p *Provisioner) WithTempDir(dir string) *Provisioner {
	p.tmpDir = dir
	return p
}

// Returns the tag of the environment image for an architecture.
func Tag(arch string) image.Ref {
	return image.NewRef("", imageRepo, arch)
}

// Builds the environment image for arch on top of base.
//
// The scratch directory holding the build context is removed before
// returning, whether or not the build succeeded.
func (p *Provisioner) EnsureImage(ctx context.Context, base image.ArchRef, arch string) (image.Ref, error) {
	if err := image.Validate(base.URI()); err != nil {
		return image.Ref{}, fmt.Errorf("%w: %w", ErrProvision, err)
	}

	scratch, err := os.MkdirTemp(p.tmpDir, "twoliter-image-")
	if err != nil {
		return image.Ref{}, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			slog.Warn("failed to remove image build context", "path", scratch, "error", err)
		}
	}()

	dockerfilePath, contextPath, err := p.prepare(scratch)
	if err != nil {
		return image.Ref{}, fmt.Errorf("%w: %w", ErrProvision, err)
	}

	tag := Tag(arch)
	opts := docker.BuildOptions{
		Dockerfile: dockerfilePath,
		Tag:        tag.URI(),
		Context:    contextPath,
		Args: []docker.BuildArg{
			{Name: "BASE", Value: base.URI()},
			{Name: "ARCH", Value: arch},
		},
	}

	slog.Info("building environment image", "base", base.URI(), "tag", tag.URI())

	if err := p.builder.Build(ctx, opts); err != nil {
		return image.Ref{}, fmt.Errorf("%w: %w", ErrProvision, err)
	}

	return tag, nil
}

// Writes the Dockerfile and unpacks the tool bundle into a scratch directory.
//
// Returns the Dockerfile path and the build context path.
func (p *Provisioner) prepare(scratch string) (string, string, error) {
	buildContext := filepath.Join(scratch, contextDir)
	files := filepath.Join(buildContext, filesDir)

	if err := os.MkdirAll(files, paths.DefaultDirMode); err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, files, err)
	}

	path := filepath.Join(scratch, dockerfileName)
	if err := os.WriteFile(path, dockerfile, paths.DefaultFileMode); err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, path, err)
	}

	if err := tools.Unpack(files, p.bundle); err != nil {
		return "", "", err
	}

	return path, buildContext, nil
}
