package generator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rybkr/setupdb/internal/assembler"
	"github.com/rybkr/setupdb/internal/board"
)

const (
	MinPieces     = 1
	MaxPieces     = 40
	DefaultPieces = 6

	attemptsPerPiece = 200
)

var (
	ErrGenerationFailed  = errors.New("failed to generate stack")
	ErrInvalidPieceCount = errors.New("piece count must be between 1 and 40")
)

// Stack is a generated setup and the drops that built it.
type Stack struct {
	// Board shows every dropped piece; completed rows stay in place.
	Board *board.Board
	// Placements are in drop order, each Y measured after earlier clears.
	Placements []board.Placement
}

// Generator creates random stacks by hard-dropping pieces.
type Generator struct {
	options *Options
	rng     *rand.Rand
}

// New creates a stack generator with the given options.
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions(DefaultPieces)
	}

	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		options: options,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate drops the configured number of pieces onto an empty field.
// Every piece comes to rest on the floor or on an earlier piece.
func (g *Generator) Generate() (*Stack, error) {
	if g.options.Pieces < MinPieces || g.options.Pieces > MaxPieces {
		return nil, ErrInvalidPieceCount
	}

	start := time.Now()
	field := board.New(0)
	placements := make([]board.Placement, 0, g.options.Pieces)

	for len(placements) < g.options.Pieces {
		if g.options.Timeout > 0 && time.Since(start) >= g.options.Timeout {
			return nil, ErrGenerationFailed
		}

		p, ok := g.tryDrop(field)
		if !ok {
			return nil, ErrGenerationFailed
		}

		cells := p.Cells()
		// Cannot fail: tryDrop only returns in-bounds placements.
		_ = field.FillCells(cells[:], p.Piece)
		field, _ = field.RemoveFullRows()
		placements = append(placements, p)
	}

	res, err := assembler.New(&assembler.Options{KeepClearedRows: true}).Assemble(board.New(0), placements)
	if err != nil {
		return nil, err
	}
	return &Stack{Board: res.Board, Placements: placements}, nil
}

// tryDrop picks random pieces and columns until one lands within the
// height limit and respects the clear setting.
func (g *Generator) tryDrop(field *board.Board) (board.Placement, bool) {
	for range attemptsPerPiece {
		piece := board.Pieces[g.rng.Intn(len(board.Pieces))]
		rotation := board.Rotation(g.rng.Intn(4))
		p := board.Placement{Piece: piece, Rotation: rotation, X: g.rng.Intn(board.Width)}

		if !fits(field, p, p.X, field.Height()+3) {
			continue
		}
		p.Y = dropY(field, p)

		if !g.accept(field, p) {
			continue
		}
		return p, true
	}
	return board.Placement{}, false
}

func (g *Generator) accept(field *board.Board, p board.Placement) bool {
	cells := p.Cells()
	for _, c := range cells {
		if c.Y >= g.options.MaxHeight {
			return false
		}
	}
	if g.options.Clears {
		return true
	}

	trial := field.Clone()
	_ = trial.FillCells(cells[:], p.Piece)
	for _, c := range cells {
		if trial.IsRowFull(c.Y) {
			return false
		}
	}
	return true
}

// dropY returns the lowest anchor row p reaches falling from above the
// stack.
func dropY(field *board.Board, p board.Placement) int {
	y := field.Height() + 3
	for fits(field, p, p.X, y-1) {
		y--
	}
	return y
}

func fits(field *board.Board, p board.Placement, x, y int) bool {
	for _, d := range board.Cells(p.Piece, p.Rotation) {
		if field.At(x+d.X, y+d.Y) != board.Empty {
			return false
		}
	}
	return true
}

// GenerateStack is a convenience function to generate a stack of the
// given number of pieces.
func GenerateStack(pieces int) (*Stack, error) {
	gen := New(DefaultOptions(pieces))
	return gen.Generate()
}
