// Package xdg resolves the XDG base directories used by tierconf.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	adrg "github.com/adrg/xdg"
)

const appName = "tierconf"

// TIERCONF_XDG_CONFIG_HOME takes precedence over XDG_CONFIG_HOME.
const configHomeEnvVar = "TIERCONF_XDG_CONFIG_HOME"

func init() {
	// CLI tools use ~/.config on macOS too, not ~/Library/Application Support.
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			adrg.ConfigHome = filepath.Join(home, ".config")
		}
	}
}

// ConfigHome returns the tierconf directory under the XDG config home. It is not created.
func ConfigHome() string {
	base := adrg.ConfigHome
	if env := os.Getenv("XDG_CONFIG_HOME"); env != "" {
		base = env
	}
	if env := os.Getenv(configHomeEnvVar); env != "" {
		base = env
	}
	return filepath.Join(base, appName)
}

// GetXDGConfigDir returns ConfigHome joined with subpath, creating it with perm.
func GetXDGConfigDir(subpath string, perm os.FileMode) (string, error) {
	dir := filepath.Join(ConfigHome(), subpath)
	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}
