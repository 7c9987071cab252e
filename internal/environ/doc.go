// Package environ selects the environment variables passed to the task
// runner.
//
// A [Surface] holds an ordered list of [Rule]s, each matching a variable by
// exact name or by prefix. [Surface.Build] keeps the host variables that
// match any rule, in name order, and then appends caller overrides. The
// result is a [Vars], an insertion-ordered map, so the argument vector built
// from it is the same on every run.
package environ
