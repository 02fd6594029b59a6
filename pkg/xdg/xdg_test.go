package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempHome, ".config"))
	t.Setenv(configHomeEnvVar, "")

	assert.Equal(t, filepath.Join(tempHome, ".config", "tierconf"), ConfigHome())
}

func TestConfigHome_Override(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempHome, ".config"))
	t.Setenv(configHomeEnvVar, filepath.Join(tempHome, "custom"))

	// TIERCONF_XDG_CONFIG_HOME takes precedence.
	assert.Equal(t, filepath.Join(tempHome, "custom", "tierconf"), ConfigHome())
}

func TestConfigHome_DefaultFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(configHomeEnvVar, "")

	assert.Equal(t, "tierconf", filepath.Base(ConfigHome()))
}

func TestGetXDGConfigDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempHome, ".config"))
	t.Setenv(configHomeEnvVar, "")

	dir, err := GetXDGConfigDir("schemas", 0o755)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempHome, ".config", "tierconf", "schemas"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetXDGConfigDir_MkdirError(t *testing.T) {
	// A regular file where the directory should go makes MkdirAll fail.
	tempHome := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempHome, "tierconf"), []byte("blocking"), 0o644))
	t.Setenv("XDG_CONFIG_HOME", tempHome)
	t.Setenv(configHomeEnvVar, "")

	_, err := GetXDGConfigDir("schemas", 0o755)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}
