package userconfig

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Empty(t *testing.T) {
	t.Parallel()

	config, err := LoadFrom(filepath.Join(t.TempDir(), "usage.yaml"))
	require.NoError(t, err)
	assert.Nil(t, config.Usage)
	assert.Equal(t, Usage{}, config.GetUsage())
}

func TestConfig_LoadWithoutUsage(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "usage.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("# empty config\n"), 0o644))

	config, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, Usage{}, config.GetUsage())
}

func TestConfig_SaveAndLoad(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "nested", "usage.yaml")

	config := &Config{Usage: &Usage{Executors: 4, Endpoint: "https://usage.example.com", Timeout: "3s"}}
	config.SetEnabled(false)
	require.NoError(t, config.SaveTo(configFile))

	loaded, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)

	usage := loaded.GetUsage()
	require.NotNil(t, usage.Enabled)
	assert.False(t, *usage.Enabled)
	assert.Equal(t, 4, usage.Executors)
	assert.Equal(t, "https://usage.example.com", usage.Endpoint)
	assert.Equal(t, "3s", usage.Timeout)
}

func TestConfig_ClearEnabled(t *testing.T) {
	t.Parallel()

	config := &Config{}
	config.ClearEnabled()
	assert.Nil(t, config.Usage)

	config.SetEnabled(true)
	require.NotNil(t, config.GetUsage().Enabled)

	config.ClearEnabled()
	assert.Nil(t, config.GetUsage().Enabled)
}

func TestConfig_InvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "usage: [\n"},
		{name: "negative executors", content: "usage:\n  executors: -1\n"},
		{name: "bad timeout", content: "usage:\n  timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configFile := filepath.Join(t.TempDir(), "usage.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0o644))

			_, err := LoadFrom(configFile)
			require.Error(t, err)
		})
	}
}

func TestConfig_AtomicWrite(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "usage.yaml")

	config := &Config{}
	config.SetEnabled(true)
	require.NoError(t, config.SaveTo(configFile))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "usage.yaml", entries[0].Name())
}

func TestConfig_AtomicWrite_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "usage.yaml")
	require.NoError(t, (&Config{}).SaveTo(configFile))

	info, err := os.Stat(configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
