package assembler

import "log/slog"

// Options configures reconstruction behavior.
type Options struct {
	// KeepClearedRows leaves completed rows in the result instead of
	// removing them, so the board shows the setup as built.
	KeepClearedRows bool
	// Logger receives overlap warnings. nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options that remove cleared rows.
func DefaultOptions() *Options {
	return &Options{
		KeepClearedRows: false,
		Logger:          nil,
	}
}
