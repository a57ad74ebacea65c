package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	assert.Equal(t, filepath.Join(home, ".hopsworks"), GetConfigDir())
	assert.Equal(t, filepath.Join(home, ".hopsworks", "logs"), GetDataDir())
}
