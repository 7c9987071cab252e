package runtime

import (
	"context"
	"fmt"
	"io"
	"path"
)

// Streams a path from the container's filesystem to w as a tar archive.
//
// The archive is produced by "tar cf - -C <dir> <base>" inside the container,
// so its single top-level entry is the base name of the path.
func (c *Container) CopyFrom(ctx context.Context, w io.Writer, src string) error {
	dir, base := path.Dir(src), path.Base(src)
	code, stderr, err := c.execCommand(ctx, w, "tar", "cf", "-", "-C", dir, base)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("%w: tar of %s exited with status %d (%s)", ErrRuntime, src, code, stderr)
	}
	return nil
}
