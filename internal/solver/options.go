package solver

import (
	"log/slog"
	"time"
)

// Options configures decomposition behavior.
type Options struct {
	Multiple   bool          // Multiple collects every distinct decomposition
	MaxResults int           // MaxResults caps the results in multiple mode (0 = no cap)
	Timeout    time.Duration // Timeout limits search time (0 = none)
	// Logger receives search statistics. nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options that stop at the first decomposition.
func DefaultOptions() *Options {
	return &Options{
		Multiple:   false,
		MaxResults: 0,
		Timeout:    30 * time.Second,
		Logger:     nil,
	}
}
