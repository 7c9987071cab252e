package image

import (
	"fmt"

	"github.com/distribution/reference"
)

// Unqualified image locator, e.g. "public.ecr.aws/bottlerocket/twoliter:v1".
type Ref struct {
	Registry string // Registry host and path prefix, empty for the default.
	Repo     string // Repository name.
	Tag      string // Image tag.
}

// Creates a [Ref].
func NewRef(registry, repo, tag string) Ref {
	return Ref{Registry: registry, Repo: repo, Tag: tag}
}

// Returns "repo:tag" or "registry/repo:tag".
func (r Ref) URI() string {
	if r.Registry == "" {
		return fmt.Sprintf("%s:%s", r.Repo, r.Tag)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repo, r.Tag)
}

// Implements [fmt.Stringer].
func (r Ref) String() string {
	return r.URI()
}

// Architecture-specialized image locator, e.g.
// "public.ecr.aws/bottlerocket/bottlerocket-sdk-x86_64:v0.32.0".
type ArchRef struct {
	Registry string // Registry host and path prefix, empty for the default.
	Name     string // Image name without the architecture suffix.
	Arch     string // Target architecture (e.g., "x86_64", "aarch64").
	Tag      string // Image tag.
}

// Creates an [ArchRef].
func NewArchRef(registry, name, arch, tag string) ArchRef {
	return ArchRef{Registry: registry, Name: name, Arch: arch, Tag: tag}
}

// Returns "name-arch:tag" or "registry/name-arch:tag".
func (r ArchRef) URI() string {
	if r.Registry == "" {
		return fmt.Sprintf("%s-%s:%s", r.Name, r.Arch, r.Tag)
	}
	return fmt.Sprintf("%s/%s-%s:%s", r.Registry, r.Name, r.Arch, r.Tag)
}

// Implements [fmt.Stringer].
func (r ArchRef) String() string {
	return r.URI()
}

// Checks that a URI is a well-formed, tagged image reference.
//
// Registries reject references with uppercase repository names or missing
// tags only at pull time; checking up front reports the mistake before a
// build context is assembled.
func Validate(uri string) error {
	named, err := reference.ParseNormalizedNamed(uri)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidReference, uri, err)
	}
	if _, ok := named.(reference.Tagged); !ok {
		return fmt.Errorf("%w: %q has no tag", ErrInvalidReference, uri)
	}
	return nil
}
