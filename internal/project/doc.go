// Package project locates and reads the project file.
//
// Only the values the build needs are read from Twoliter.toml: the release
// version and the SDK image coordinates. Everything else in the file is left
// to the tools that own it. A [Project] also derives the paths and names the
// build uses, such as the tools directory and the per-project token that
// keeps helper container names apart.
package project
