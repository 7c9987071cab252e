// Package build runs the commands that drive the task runner.
//
// Each flow resolves what the task needs before handing over to cargo-make:
// the tool bundle is installed into the project, the environment image is
// built from the project's SDK, build inputs are copied out of a helper
// container, host paths are planned as mounts, and the environment surface
// is assembled. Every flow is sequential. Transient resources are owned by a
// [helper.Guard] that is released on the way out, and a release failure is
// logged without replacing the flow's result.
//
// Example usage:
//
//	env := &build.Env{
//	    Provisioner: provision.New(client, tools.Default()),
//	    Helpers:     helper.NewDocker(client),
//	    Runner:      taskrun.New("cargo", client, proc.Buffered),
//	    Surface:     environ.New(environ.DefaultRules()),
//	    Planner:     mount.NewPlanner(),
//	    Host:        os.Environ(),
//	    Tools:       tools.Default(),
//	}
//
//	err := build.Variant(ctx, env, build.VariantOptions{
//	    Project: p,
//	    Arch:    "x86_64",
//	    Variant: "aws-dev",
//	})
package build
