// Package provision builds the environment image the task runner runs in.
//
// The environment image is the pinned SDK image with the tool bundle layered
// on top. [Provisioner.EnsureImage] assembles a throwaway build context from
// an embedded Dockerfile and the bundle, builds it with the SDK reference as
// the BASE build argument, and returns the fixed tag the result is known by.
// The image is rebuilt on every call; layer caching in the image builder keeps
// repeat builds cheap.
package provision
