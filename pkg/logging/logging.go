// Package logging configures slog for the hopsworks-usage CLI.
package logging

import (
	"io"
	"log/slog"
)

// Setup installs the default slog logger. Without debug, all logs are
// discarded. With debug, logs are written at debug level to a file at path
// that is rolled over according to rotation, and the returned closer must
// be closed on exit.
func Setup(debug bool, path string, rotation Rotation) (io.Closer, error) {
	if !debug {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil, nil
	}

	file, err := openLogFile(path, rotation)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return file, nil
}
