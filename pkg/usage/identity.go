package usage

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// Logical library names reported with every event.
const (
	LibraryHSML      = "hsml"
	LibraryHSFS      = "hsfs"
	LibraryHopsworks = "hopsworks"
)

const (
	userIDFile   = "user_id"
	userIDPrefix = "HOPSWORKSID="
)

// Identity lazily resolves the process and user facts attached to events.
// Every value is computed at most once and cached; the user id is retried
// on later calls only if resolving it failed.
type Identity struct {
	configDir string
	buildInfo func() (*debug.BuildInfo, bool)

	platform  func() string
	timezone  func() *time.Location
	goVersion func() string

	mu        sync.Mutex
	userID    string
	libraries map[string]string
}

func newIdentity(configDir string) *Identity {
	return &Identity{
		configDir: configDir,
		buildInfo: debug.ReadBuildInfo,
		platform:  sync.OnceValue(platformString),
		timezone: sync.OnceValue(func() *time.Location {
			return time.Now().Location()
		}),
		goVersion: sync.OnceValue(runtime.Version),
		libraries: make(map[string]string),
	}
}

// Platform returns an OS/architecture descriptor such as "Linux-6.8.0-x86_64".
func (id *Identity) Platform() string {
	return id.platform()
}

// RuntimeVersion returns the Go runtime version. It fills the
// "python_version" field of the wire format.
func (id *Identity) RuntimeVersion() string {
	return id.goVersion()
}

// Timezone returns the local time zone as resolved on first access.
func (id *Identity) Timezone() *time.Location {
	return id.timezone()
}

// TimezoneName returns the abbreviation of the cached zone at instant at,
// such as "CET" or "CEST".
func (id *Identity) TimezoneName(at time.Time) string {
	name, _ := at.In(id.Timezone()).Zone()
	return name
}

// SetLibraryVersion records the version of a logical library, taking
// precedence over build info lookups.
func (id *Identity) SetLibraryVersion(name, version string) {
	id.mu.Lock()
	defer id.mu.Unlock()

	id.libraries[name] = version
}

// LibraryVersion returns the version of the named library or "" when it is
// not part of this binary. A dependency whose module path ends in /name
// (or the main module, if it does) is used.
func (id *Identity) LibraryVersion(name string) string {
	id.mu.Lock()
	defer id.mu.Unlock()

	if v, ok := id.libraries[name]; ok {
		return v
	}

	v := id.lookupModuleVersion(name)
	id.libraries[name] = v
	return v
}

func (id *Identity) lookupModuleVersion(name string) string {
	info, ok := id.buildInfo()
	if !ok || info == nil {
		return ""
	}

	if path.Base(info.Main.Path) == name && info.Main.Version != "" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if path.Base(dep.Path) != name {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

// UserID returns the anonymous user identifier, creating and persisting it
// under the config directory on first use.
func (id *Identity) UserID() (string, error) {
	id.mu.Lock()
	defer id.mu.Unlock()

	if id.userID != "" {
		return id.userID, nil
	}

	if err := os.MkdirAll(id.configDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", id.configDir, err)
	}

	file := filepath.Join(id.configDir, userIDFile)
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if existing := strings.TrimSpace(string(data)); existing != "" {
			id.userID = existing
			return id.userID, nil
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("reading user id: %w", err)
	}

	newID := generateUserID()
	if err := atomic.WriteFile(file, bytes.NewReader([]byte(newID))); err != nil {
		return "", fmt.Errorf("writing user id: %w", err)
	}

	id.userID = newID
	return id.userID, nil
}

func generateUserID() string {
	u := uuid.New()
	return userIDPrefix + hex.EncodeToString(u[:8])
}

type envAttributes struct {
	Platform         string `json:"platform"`
	HSMLVersion      string `json:"hsml_version"`
	HSFSVersion      string `json:"hsfs_version"`
	HopsworksVersion string `json:"hopsworks_version"`
	UserID           string `json:"user_id"`
	BackendVersion   string `json:"backend_version"`
	Timezone         string `json:"timezone"`
	PythonVersion    string `json:"python_version"`
}

func (id *Identity) json(backendVersion string, now time.Time) (string, error) {
	userID, err := id.UserID()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(envAttributes{
		Platform:         id.Platform(),
		HSMLVersion:      id.LibraryVersion(LibraryHSML),
		HSFSVersion:      id.LibraryVersion(LibraryHSFS),
		HopsworksVersion: id.LibraryVersion(LibraryHopsworks),
		UserID:           userID,
		BackendVersion:   backendVersion,
		Timezone:         id.TimezoneName(now),
		PythonVersion:    id.RuntimeVersion(),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling environment: %w", err)
	}
	return string(data), nil
}
