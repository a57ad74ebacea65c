package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/docker/go-units"
)

// Rotation bounds how much debug log is kept on disk. The live file rolls
// over to <path>.1 before a write would push it past MaxSize, and at most
// MaxBackups numbered files are kept.
type Rotation struct {
	MaxSize    int64
	MaxBackups int
}

var DefaultRotation = Rotation{MaxSize: 10 * units.MiB, MaxBackups: 3}

// ParseRotation builds a Rotation from a human readable size such as
// "10MB" or "512k" and a backup count.
func ParseRotation(size string, backups int) (Rotation, error) {
	n, err := units.RAMInBytes(size)
	if err != nil {
		return Rotation{}, fmt.Errorf("log size %q: %w", size, err)
	}
	if n <= 0 {
		return Rotation{}, fmt.Errorf("log size %q must be positive", size)
	}
	if backups < 0 {
		return Rotation{}, fmt.Errorf("log backups must not be negative, got %d", backups)
	}
	return Rotation{MaxSize: n, MaxBackups: backups}, nil
}

// needsRoll reports whether writing n more bytes to a file of the given size
// must roll it first. A file that is still empty is never rolled, so a
// single oversized record still lands somewhere.
func (r Rotation) needsRoll(size int64, n int) bool {
	return size > 0 && size+int64(n) > r.MaxSize
}

// shift renames path to path.1, path.1 to path.2 and so on, dropping
// whatever falls off the end.
func (r Rotation) shift(path string) error {
	numbered := func(i int) string { return fmt.Sprintf("%s.%d", path, i) }

	if r.MaxBackups == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	_ = os.Remove(numbered(r.MaxBackups))
	for i := r.MaxBackups - 1; i >= 1; i-- {
		_ = os.Rename(numbered(i), numbered(i+1))
	}
	if err := os.Rename(path, numbered(1)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// logFile is the io.WriteCloser behind the debug slog handler.
type logFile struct {
	path     string
	rotation Rotation

	mu      sync.Mutex
	f       *os.File
	written int64
}

func openLogFile(path string, rotation Rotation) (*logFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	lf := &logFile{path: path, rotation: rotation}
	if err := lf.reopen(); err != nil {
		return nil, err
	}
	return lf, nil
}

func (lf *logFile) reopen() error {
	f, err := os.OpenFile(lf.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	lf.f = f
	lf.written = info.Size()
	return nil
}

func (lf *logFile) Write(p []byte) (int, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.f == nil {
		return 0, os.ErrClosed
	}
	if lf.rotation.needsRoll(lf.written, len(p)) {
		if err := lf.roll(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	n, err := lf.f.Write(p)
	lf.written += int64(n)
	return n, err
}

func (lf *logFile) roll() error {
	if err := lf.f.Close(); err != nil {
		return err
	}
	lf.f = nil
	if err := lf.rotation.shift(lf.path); err != nil {
		return err
	}
	return lf.reopen()
}

func (lf *logFile) Close() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.f == nil {
		return nil
	}
	err := lf.f.Close()
	lf.f = nil
	return err
}
