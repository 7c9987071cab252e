// Package tools installs the helper executables and task definitions that
// drive a build.
//
// The tools are shipped inside the twoliter binary as a compressed tar
// archive (the bundle) produced by go generate from the embedded directory.
// Installing unpacks the bundle into a project's tools directory and records
// the bundle's content digest in a marker file next to the tools. A later
// install is skipped when the marker matches the running binary's bundle, so
// repeated builds do not rewrite files that tasks may be watching.
//
// Example usage:
//
//	if err := tools.Install("build/tools", false); err != nil {
//	    return err
//	}
package tools

//go:generate go run ./gen -src embedded -out tools.tar.gz
