package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	programName = "twoliter"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for installed executables and scripts.
	DefaultExecMode os.FileMode = 0755
)

// Path to the directory for user configuration.
//
//	Linux:   $XDG_CONFIG_HOME/twoliter or ~/.config/twoliter
//	macOS:   ~/Library/Application Support/twoliter
func Config() string {
	return filepath.Join(xdg.ConfigHome, programName)
}

// Default path to the user settings file.
//
//	Linux:   $XDG_CONFIG_HOME/twoliter/config.yaml
//	macOS:   ~/Library/Application Support/twoliter/config.yaml
func Settings() string {
	return filepath.Join(Config(), "config.yaml")
}

// Path to the directory for scratch data that may be discarded, such as
// image build contexts.
//
//	Linux:   $XDG_CACHE_HOME/twoliter or ~/.cache/twoliter
//	macOS:   ~/Library/Caches/twoliter
func Cache() string {
	return filepath.Join(xdg.CacheHome, programName)
}
