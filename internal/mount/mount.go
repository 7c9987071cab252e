package mount

import "fmt"

// Whether a declared path names a file or a directory.
type Kind int

const (
	File Kind = iota
	Dir
)

// Returns the kind name.
func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Dir:
		return "dir"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// What to do when a declared path outside the project does not exist.
type Policy int

const (

	// Create the directory (or, for a file, its parent) and mount it.
	Create Policy = iota

	// Fail the plan.
	NoCreate
)

// Returns the policy name.
func (p Policy) String() string {
	switch p {
	case Create:
		return "create"
	case NoCreate:
		return "no-create"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Host path the build needs, with its missing-path policy.
type Declared struct {
	Path   string // Host path as given, relative paths resolve against the working directory.
	Kind   Kind   // File or directory.
	Policy Policy // Behavior when the path does not exist.
}

// Bind mount of a host path into the build environment.
type Spec struct {
	Source      string // Canonical host path.
	Destination string // Path inside the container.
	Kind        Kind   // Kind of the mounted source.
	ReadOnly    bool   // Mount read-only.
}

// Returns a read-write mount of a canonical path at the same location.
func Identity(path string, kind Kind) Spec {
	return Spec{Source: path, Destination: path, Kind: kind}
}
