// Package assembler replays placements onto a board, clearing rows as
// they fill.
package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rybkr/setupdb/internal/board"
)

var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrOutOfBounds      = errors.New("placement outside the field")
)

// Overlap records a placement cell that landed on an occupied square.
type Overlap struct {
	Step      int // index of the placement in the input
	Placement board.Placement
	At        board.Point // position on the uncompacted board
	Was       board.Cell
}

func (o Overlap) String() string {
	return fmt.Sprintf("step %d: %v overlaps %v at (%d,%d)", o.Step, o.Placement, o.Was, o.At.X, o.At.Y)
}

// Result is the outcome of one reconstruction.
type Result struct {
	Board *board.Board
	// Cleared lists the rows completed during the run, ascending, as
	// indices on the board before any of them were removed.
	Cleared  []int
	Overlaps []Overlap
}

// Assembler applies placement sequences to boards.
type Assembler struct {
	options *Options
	logger  *slog.Logger
}

// New creates an assembler with the given options.
func New(options *Options) *Assembler {
	if options == nil {
		options = DefaultOptions()
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Assembler{
		options: options,
		logger:  logger,
	}
}

// Assemble applies placements to a copy of base in order.
//
// Each placement's Y is read on the board as it looks once earlier clears
// are compacted away. Overlaps are logged and recorded but do not stop the
// run. A placement that is not a piece, or that reaches outside the
// field, fails the whole call.
func (a *Assembler) Assemble(base *board.Board, placements []board.Placement) (*Result, error) {
	b := base.Clone()
	res := &Result{}

	for step, p := range placements {
		if !p.Piece.IsPiece() || p.Rotation > board.Left {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidPlacement, step, p)
		}

		for _, c := range p.Cells() {
			x, y := c.X, uncompact(res.Cleared, c.Y)
			if x < 0 || x >= board.Width || c.Y < 0 || y >= board.MaxHeight {
				return nil, fmt.Errorf("%w: step %d: %v covers (%d,%d)", ErrOutOfBounds, step, p, c.X, c.Y)
			}

			if was := b.At(x, y); was != board.Empty {
				o := Overlap{Step: step, Placement: p, At: board.Point{X: x, Y: y}, Was: was}
				a.logger.Warn("placement overlaps the current field",
					"step", step, "placement", p.String(), "x", x, "y", y, "cell", was.String())
				res.Overlaps = append(res.Overlaps, o)
			}
			if err := b.Fill(x, y, p.Piece); err != nil {
				return nil, fmt.Errorf("step %d: %w", step, err)
			}
		}

		// Rows that were already full in base clear along with the first
		// placement, so later placements count past them too.
		for y := 0; y < b.Height(); y++ {
			if b.IsRowFull(y) && !slices.Contains(res.Cleared, y) {
				res.Cleared = append(res.Cleared, y)
			}
		}
		slices.Sort(res.Cleared)
	}

	if !a.options.KeepClearedRows {
		b = b.RemoveRows(res.Cleared)
	}
	res.Board = b
	return res, nil
}

// uncompact maps row y, counted with the cleared rows removed, back onto
// the board where they still sit.
func uncompact(cleared []int, y int) int {
	for _, c := range cleared {
		if c > y {
			break
		}
		y++
	}
	return y
}

// Reconstruct applies placements to base with default options and
// returns the resulting board.
func Reconstruct(base *board.Board, placements []board.Placement) (*board.Board, error) {
	res, err := New(nil).Assemble(base, placements)
	if err != nil {
		return nil, err
	}
	return res.Board, nil
}
