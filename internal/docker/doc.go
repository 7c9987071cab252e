// Package docker drives the docker command-line client.
//
// Only the handful of subcommands the build needs are wrapped: building the
// environment image, creating and removing the helper container, copying
// files out of it, and assembling the argument vector for running the task
// runner inside the environment image. All execution goes through package
// proc, so failures carry the exit status and captured output.
package docker
