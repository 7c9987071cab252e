// Package helper scopes the short-lived resources a build step creates.
//
// A [Guard] owns an optional helper container, started from the SDK image so
// build inputs can be copied out of it, and the host paths created on its
// behalf. [Guard.Release] removes all of them exactly once. There is no
// finalizer: callers defer Release and decide what to do with its error.
//
//	g, err := helper.Acquire(ctx, rt, name, sdk)
//	if err != nil {
//	    return err
//	}
//	defer func() {
//	    if err := g.Release(context.WithoutCancel(ctx)); err != nil {
//	        slog.Warn("failed to release helper", "error", err)
//	    }
//	}()
//
// Two container backends implement [Runtime]: [Docker] drives the docker
// CLI, [Containerd] talks to a containerd daemon directly.
package helper
