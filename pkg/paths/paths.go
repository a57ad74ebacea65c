package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the per-user Hopsworks directory holding the anonymous
// user id and the usage config file.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".hopsworks"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".hopsworks"))
}

// GetDataDir returns the directory for CLI debug logs.
func GetDataDir() string {
	return filepath.Join(GetConfigDir(), "logs")
}
