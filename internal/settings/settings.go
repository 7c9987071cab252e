package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/twoliter/internal/environ"
)

const (

	// Helper containers run through the docker CLI.
	RuntimeDocker = "docker"

	// Helper containers run on a containerd daemon.
	RuntimeContainerd = "containerd"
)

// Extra allow-list entries for the task environment.
type Env struct {
	Prefixes []string `yaml:"prefixes"` // Variable name prefixes.
	Names    []string `yaml:"names"`    // Exact variable names.
}

// Connection to a containerd daemon.
type Containerd struct {
	Address     string `yaml:"address"`     // Socket path.
	Namespace   string `yaml:"namespace"`   // Namespace for helper containers and images.
	Snapshotter string `yaml:"snapshotter"` // Snapshotter, empty for the runtime default.
}

// User settings.
type Settings struct {
	Runtime    string     `yaml:"runtime"`    // Helper container backend.
	Docker     string     `yaml:"docker"`     // docker executable.
	Cargo      string     `yaml:"cargo"`      // cargo executable.
	Containerd Containerd `yaml:"containerd"` // containerd connection.
	Env        Env        `yaml:"env"`        // Extra environment rules.
}

// Returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Runtime: RuntimeDocker,
		Docker:  "docker",
		Cargo:   "cargo",
		Containerd: Containerd{
			Address:   "/run/containerd/containerd.sock",
			Namespace: "twoliter",
		},
	}
}

// Reads settings from path, falling back to [Default] when it does not
// exist.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no settings file", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return s, nil
}

// Parses YAML settings on top of the defaults.
//
// Unknown fields are rejected.
func Parse(data []byte) (*Settings, error) {
	s := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Checks field values.
func (s *Settings) Validate() error {
	switch s.Runtime {
	case RuntimeDocker, RuntimeContainerd:
	default:
		return fmt.Errorf("%w: runtime must be %q or %q, got %q", ErrInvalid, RuntimeDocker, RuntimeContainerd, s.Runtime)
	}
	for _, p := range s.Env.Prefixes {
		if p == "" {
			return fmt.Errorf("%w: empty env prefix would admit every variable", ErrInvalid)
		}
	}
	return nil
}

// Returns the environment rules: the build system's defaults followed by the
// user's additions.
func (s *Settings) Rules() []environ.Rule {
	rules := environ.DefaultRules()
	for _, p := range s.Env.Prefixes {
		rules = append(rules, environ.PrefixRule(p))
	}
	for _, n := range s.Env.Names {
		rules = append(rules, environ.ExactRule(n))
	}
	return rules
}
