package types

// Logger is the structured logger used throughout allot.
//
// Methods take a message followed by alternating key-value pairs, the calling
// convention of zap.SugaredLogger and slog. Strategies log per-task decisions
// at Debug, run summaries at Info and clamped options at Warn.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// Fatal logs at the highest level and terminates the process.
	Fatal(msg string, keysAndValues ...any)
}
