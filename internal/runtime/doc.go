// Package runtime runs helper containers on containerd.
//
// A [Runtime] connects to a containerd daemon, pulls and unpacks an image for
// the host platform, and starts a container whose only process is "sleep
// infinity". The container exists so that files can be read out of the
// image's filesystem; [Container.CopyFrom] archives a path with tar inside
// the container and streams it back. When the container is no longer needed
// it must be destroyed to release its task and snapshot.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "twoliter")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartHelper(ctx, "public.ecr.aws/bottlerocket/bottlerocket-sdk-x86_64:v0.32.0", "sdk-1")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	if err := ctr.CopyFrom(ctx, w, "/twoliter/alpha/build/rpms"); err != nil {
//	    return err
//	}
package runtime
