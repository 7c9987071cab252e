package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Program name, used for the logger group, usage output, and XDG paths.
	Name = "twoliter"

	// String to indicate an undefined variable.
	defaultUndefined = "(undefined)"

	// String to indicate a local (non-pipeline) build.
	defaultLocalBuild = "(local)"

	// Main branch name, omitted from version strings.
	mainBranch = "main"
)

var (
	version   = "" // Version number (e.g., "0.4.1")
	stage     = "" // Development stage or git branch (e.g., "develop", "main")
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4")

	rawLogLevel = "warn" // Default log level, one of error, warn, info, debug
)

// Identifies the running binary.
type BuildInfo struct {
	Version string // Release version without a "v" prefix, or "(undefined)".
	Stage   string // Lowercased branch or stage name, or "(undefined)".
	Commit  string // Git commit hash, or "(undefined)".
	Arch    string // GOARCH of the binary.
	Local   bool   // True unless all pipeline variables were set at link time.
}

// Returns the build information recorded by the linker.
//
// A build is local if any of the version, git commit, or stage variables are
// unset. Pipeline builds set all three via -ldflags "-X".
func Info() BuildInfo {
	info := BuildInfo{
		Version: orUndefined(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")),
		Stage:   orUndefined(strings.ToLower(strings.TrimSpace(stage))),
		Commit:  orUndefined(strings.TrimSpace(gitCommit)),
		Arch:    runtime.GOARCH,
	}
	info.Local = strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
	return info
}

// Formats the build information as "<version>+<stage> <commit> [<arch>]".
//
// The stage suffix is omitted for the main branch. Local builds render as
// "(local)".
func (b BuildInfo) String() string {
	if b.Local {
		return defaultLocalBuild
	}

	s := ""
	if b.Stage != mainBranch {
		s = "+" + b.Stage
	}

	return fmt.Sprintf("%s%s %s [%s]", b.Version, s, b.Commit, b.Arch)
}

// Shorthand for Info().String().
func VersionString() string {
	return Info().String()
}

func orUndefined(s string) string {
	if s == "" {
		return defaultUndefined
	}
	return s
}
