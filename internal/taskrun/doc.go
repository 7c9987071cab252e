// Package taskrun invokes the cargo-make task runner.
//
// A [Runner] turns an [Invocation] into the argument vector "make
// --disable-check-for-updates --makefile M --cwd D -e NAME=VALUE ... TASK
// ARGS..." and runs it with cargo, either directly on the host or inside the
// environment image with the planned mounts. The caller's arguments always
// come last, since the last of them may be the task runner's own target.
package taskrun
