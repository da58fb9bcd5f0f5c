package solver

import (
	"github.com/rybkr/setupdb/internal/board"
)

// BuildOrders counts the complete build orders of b: every sequence of
// grounded placements that clears its colored cells, counting the same
// set of pieces once per order it can be placed in. A board with many
// orders is forgiving to build; a board with one demands exact play.
func BuildOrders(b *board.Board) (int, error) {
	opts := DefaultOptions()
	opts.Multiple = true
	opts.Timeout = 0

	s := New(b, opts)
	if _, err := s.Decompose(); err != nil {
		return 0, err
	}
	if !s.Board.HasColored() {
		return 0, nil
	}
	return s.stats.Completions, nil
}
