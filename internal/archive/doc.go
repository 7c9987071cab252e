// Package archive reads and writes compressed tar streams.
//
// Tool bundles are tar archives compressed with gzip or zlib and rooted at an
// empty path prefix, so that their members land directly in the destination
// directory. [Unpack] detects the compression from the stream header, while
// [Untar] handles the plain tar streams produced by container copy
// operations. [Pack] writes the bundle format from a directory tree.
//
// Extraction refuses entries that would escape the destination directory.
//
// Example usage:
//
//	f, err := os.Open("tools.tar.gz")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	if err := archive.Unpack(f, "build/tools"); err != nil {
//	    return err
//	}
package archive
