package usage

import "log/slog"

// usageLogger wraps slog.Logger to prepend "[Usage]" to all messages.
// Everything the subsystem logs is debug level: a failing report must
// stay invisible to the host program.
type usageLogger struct {
	logger *slog.Logger
}

func newUsageLogger(logger *slog.Logger) *usageLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &usageLogger{logger: logger}
}

func (l *usageLogger) Debug(msg string, args ...any) {
	l.logger.Debug("[Usage] "+msg, args...)
}
