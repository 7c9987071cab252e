package docker

import "strings"

// Bind mount for [RunOptions].
type Mount struct {
	Source   string // Host path.
	Target   string // Path inside the container.
	ReadOnly bool   // Mount read-only.
}

// Renders the --mount value.
func (m Mount) Arg() string {
	var b strings.Builder
	b.WriteString("type=bind,source=")
	b.WriteString(m.Source)
	b.WriteString(",target=")
	b.WriteString(m.Target)
	if m.ReadOnly {
		b.WriteString(",readonly")
	}
	return b.String()
}

// Parameters for [Client.Run].
type RunOptions struct {
	Name    string   // Container name.
	Image   string   // Image to run.
	Network string   // Network mode (e.g., "host"), omitted when empty.
	User    string   // User (uid or uid:gid), omitted when empty.
	Groups  []string // Supplementary groups.
	Mounts  []Mount  // Bind mounts, in order.
	WorkDir string   // Working directory inside the container.
	Command []string // Command and arguments.
}

// Returns the argument vector for "docker run", without the binary.
//
// The container is always removed when it exits.
func RunArgs(opts RunOptions) []string {
	args := []string{"run", "--rm"}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	if opts.Network != "" {
		args = append(args, "--network="+opts.Network)
	}
	if opts.User != "" {
		args = append(args, "--user", opts.User)
	}
	for _, g := range opts.Groups {
		args = append(args, "--group-add", g)
	}
	for _, m := range opts.Mounts {
		args = append(args, "--mount", m.Arg())
	}
	if opts.WorkDir != "" {
		args = append(args, "--workdir", opts.WorkDir)
	}
	args = append(args, opts.Image)
	return append(args, opts.Command...)
}
