// Package mount decides which host paths the build environment container
// can see.
//
// The project directory is always mounted. Other paths come from environment
// variables that name files or directories the build reads or writes (see
// [Catalog]); each carries a [Kind] and a [Policy] that decide what happens
// when the path does not exist yet. A [Planner] resolves the declared paths
// to canonical host locations, creating the ones it is allowed to, and
// returns one [Spec] per distinct source in a stable order.
package mount
