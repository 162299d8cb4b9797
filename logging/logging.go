// Package logging builds the structured logger shared by every command.
package logging

import (
	"io"
	"os"

	"pkt.systems/pslog"
)

const EnvPrefix = "RENTDOCS_LOG_"

// New reads RENTDOCS_LOG_* variables (level, mode, ...) and logs to w,
// stderr when w is nil.
func New(w io.Writer) pslog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return pslog.LoggerFromEnv(
		pslog.WithEnvPrefix(EnvPrefix),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole, MinLevel: pslog.InfoLevel}),
		pslog.WithEnvWriter(w),
	).With("app", "rentdocs")
}

// WithSubsystem tags every entry of logger with the emitting component.
func WithSubsystem(logger pslog.Logger, name string) pslog.Logger {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	return logger.With("subsystem", name)
}
