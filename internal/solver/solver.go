// Package solver infers the piece placements that built a board.
//
// A board's colored cells are lifted off one piece at a time, each piece
// grounded on the floor, on garbage or on pieces already lifted, until no
// colored cell remains. Every distinct way of doing so is a
// Decomposition.
package solver

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"slices"

	"github.com/rybkr/setupdb/internal/board"
)

// MaxBoardHeight is the tallest board whose rows fit the 5-bit row fields
// of board.Code.
const MaxBoardHeight = 32

var (
	ErrNoDecomposition = errors.New("board cannot be decomposed into pieces")
	ErrBoardTooTall    = errors.New("board too tall to decompose")
	ErrTimeout         = errors.New("solver timeout exceeded")
)

// Decomposition is an ordered list of placements that, applied in order,
// produce the colored region of a board.
type Decomposition struct {
	Placements []board.AbsolutePlacement
}

// Codes returns the encoded placements in order.
func (d Decomposition) Codes() []board.Code {
	codes := make([]board.Code, len(d.Placements))
	for i, p := range d.Placements {
		codes[i] = board.MustEncode(p)
	}
	return codes
}

// Operations returns the placements without their absolute rows.
func (d Decomposition) Operations() []board.Placement {
	ops := make([]board.Placement, len(d.Placements))
	for i, p := range d.Placements {
		ops[i] = p.Placement
	}
	return ops
}

// Key identifies the set of pieces regardless of the order they were
// placed in or of rows compacted in between.
func (d Decomposition) Key() string {
	keys := d.Codes()
	for i := range keys {
		keys[i] = keys[i].Key()
	}
	slices.Sort(keys)

	buf := make([]byte, 0, 4*len(keys))
	for _, k := range keys {
		buf = binary.BigEndian.AppendUint32(buf, uint32(k))
	}
	return string(buf)
}

// Stats counts the work done by the last Decompose call.
type Stats struct {
	Explored    int // search nodes expanded
	Completions int // complete build orders found, duplicates included
	Duplicates  int // completions discarded as already recorded
}

// Solver implements the decomposition search for one board.
type Solver struct {
	Board   *board.Board
	options *Options
	logger  *slog.Logger
	stats   Stats
}

// New creates a solver for the given board.
func New(b *board.Board, options *Options) *Solver {
	if options == nil {
		options = DefaultOptions()
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Solver{
		Board:   b.Clone(),
		options: options,
		logger:  logger,
	}
}

// Decompose runs the search with a background context.
func (s *Solver) Decompose() ([]Decomposition, error) {
	return s.DecomposeContext(context.Background())
}

// DecomposeContext finds the decompositions of the solver's board.
//
// In multiple mode every decomposition with a distinct Key is returned in
// discovery order; otherwise the search stops at the first. A board with
// no way to lift all its pieces yields ErrNoDecomposition. When the
// context ends or the timeout passes, the decompositions found so far are
// returned together with ErrTimeout.
func (s *Solver) DecomposeContext(ctx context.Context) ([]Decomposition, error) {
	s.stats = Stats{}

	if s.Board.Trim().Height() > MaxBoardHeight {
		return nil, ErrBoardTooTall
	}
	if !s.Board.HasColored() {
		return []Decomposition{{}}, nil
	}
	if s.Board.ColoredCount()%4 != 0 {
		return nil, ErrNoDecomposition
	}

	ctx, cancel := s.makeContext(ctx)
	defer cancel()

	results, err := s.search(ctx)
	s.logger.Debug("decomposition search finished",
		"results", len(results),
		"explored", s.stats.Explored,
		"completions", s.stats.Completions,
		"duplicates", s.stats.Duplicates)

	if err != nil {
		return results, err
	}
	if len(results) == 0 {
		return nil, ErrNoDecomposition
	}
	return results, nil
}

// Stats returns the counters of the last search.
func (s *Solver) Stats() Stats {
	return s.stats
}

// node is one partial decomposition on the search stack. It owns its
// board; siblings never share one.
type node struct {
	board      *board.Board
	x0, y0     int
	placements []board.AbsolutePlacement

	// cleared holds the absolute indices of rows removed so far, ascending.
	cleared []int
}

// search is a depth-first traversal with an explicit stack. Children are
// pushed in reverse so they pop in scan and catalog order.
func (s *Solver) search(ctx context.Context) ([]Decomposition, error) {
	seen := make(map[string]struct{})
	var results []Decomposition

	stack := []node{{board: s.Board.Clone()}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return results, ErrTimeout
		default:
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.board.HasColored() {
			s.stats.Completions++
			d := Decomposition{Placements: n.placements}
			key := d.Key()
			if _, dup := seen[key]; dup {
				s.stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			results = append(results, d)

			if !s.options.Multiple || (s.options.MaxResults > 0 && len(results) >= s.options.MaxResults) {
				return results, nil
			}
			continue
		}

		s.stats.Explored++
		children := s.expand(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return results, nil
}

// expand returns every admissible next placement of n. The scan runs
// bottom-up, left to right, from n's resume position.
func (s *Solver) expand(n node) []node {
	var children []node
	for y := n.y0; y < n.board.Height(); y++ {
		startX := 0
		if y == n.y0 {
			startX = n.x0
		}
		for x := startX; x < board.Width; x++ {
			piece := n.board.At(x, y)
			if !piece.IsPiece() {
				continue
			}
			for _, v := range board.Variants(piece) {
				cells, ok := n.board.Fits(piece, v, x, y)
				if !ok {
					continue
				}
				children = append(children, place(n, piece, v, x, y, cells))
			}
		}
	}
	return children
}

// place lifts one piece off a copy of n's board.
func place(n node, piece board.Cell, v board.Variant, x, y int, cells [4]board.Point) node {
	next := n.board.Clone()
	next.MarkPlaced(cells)
	next, removed := next.RemoveRowsWhere(settledRow)

	anchor := v.Anchor(x, y)
	p := board.AbsolutePlacement{
		Placement: board.Placement{Piece: piece, Rotation: v.Rotation, X: anchor.X, Y: anchor.Y},
		AbsY:      toAbsolute(n.cleared, anchor.Y),
	}

	child := node{
		board:      next,
		x0:         max(x-1, 0),
		y0:         max(y-1, 0),
		placements: append(n.placements[:len(n.placements):len(n.placements)], p),
		cleared:    n.cleared,
	}

	// Compaction shifts every row above a clear, so rescan from the floor.
	if len(removed) > 0 {
		child.x0, child.y0 = 0, 0
		child.cleared = mergeCleared(n.cleared, removed)
	}
	return child
}

// settledRow reports whether every cell of row is garbage or placed.
func settledRow(row [board.Width]board.Cell) bool {
	for _, c := range row {
		if !c.IsSettled() {
			return false
		}
	}
	return true
}

// toAbsolute maps a row of the compacted board to its index on the
// board before any of the cleared rows were removed.
func toAbsolute(cleared []int, y int) int {
	for _, c := range cleared {
		if c > y {
			break
		}
		y++
	}
	return y
}

// mergeCleared converts rows just removed from the compacted board to
// absolute indices and merges them into cleared, returning a new slice.
func mergeCleared(cleared, removed []int) []int {
	out := slices.Clone(cleared)
	for _, r := range removed {
		out = append(out, toAbsolute(cleared, r))
	}
	slices.Sort(out)
	return out
}

// makeContext applies the configured timeout, if any.
func (s *Solver) makeContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.options.Timeout > 0 {
		return context.WithTimeout(parent, s.options.Timeout)
	}
	return context.WithCancel(parent)
}

// Decompose is a convenience wrapper returning every distinct
// decomposition of b, or only the first when multiple is false.
func Decompose(b *board.Board, multiple bool) ([]Decomposition, error) {
	opts := DefaultOptions()
	opts.Multiple = multiple
	return New(b, opts).Decompose()
}
