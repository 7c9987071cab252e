// Package image models container image locators.
//
// A [Ref] names an image by optional registry, repository, and tag, as docker
// does: when the registry is absent the image is looked up locally first and
// then on the default registry. An [ArchRef] names an image that is published
// once per target architecture, with the architecture appended to the name
// (for example, "bottlerocket-sdk-x86_64"). Both render a canonical URI with
// URI, which is a pure function of their fields.
package image
