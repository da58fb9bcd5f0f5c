package generator

import (
	"time"
)

// Options configures stack generation behavior.
type Options struct {
	Pieces    int           // Number of pieces to drop
	MaxHeight int           // MaxHeight caps the rows a piece may reach
	Clears    bool          // Clears allows drops that complete a row
	Timeout   time.Duration // Timeout limits generation time
	Seed      int64         // Seed for reproducible stacks (0 = random)
}

// DefaultOptions returns standard generator options.
func DefaultOptions(pieces int) *Options {
	pieces = min(max(pieces, MinPieces), MaxPieces)
	return &Options{
		Pieces:    pieces,
		MaxHeight: 8,
		Clears:    false,
		Timeout:   10 * time.Second,
		Seed:      0,
	}
}
