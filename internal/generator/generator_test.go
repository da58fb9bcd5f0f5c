package generator

import (
	"testing"

	"github.com/rybkr/setupdb/internal/assembler"
	"github.com/rybkr/setupdb/internal/board"
	"github.com/rybkr/setupdb/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, seed int64, pieces int, clears bool) *Stack {
	t.Helper()
	opts := DefaultOptions(pieces)
	opts.Seed = seed
	opts.Clears = clears
	s, err := New(opts).Generate()
	require.NoError(t, err)
	return s
}

func TestGenerateIsReproducible(t *testing.T) {
	a := generate(t, 42, 8, true)
	b := generate(t, 42, 8, true)
	assert.Equal(t, a.Placements, b.Placements)
	assert.True(t, a.Board.Equal(b.Board))
}

func TestGenerateWithoutClears(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		s := generate(t, seed, 6, false)
		require.Len(t, s.Placements, 6)
		assert.Equal(t, 24, s.Board.ColoredCount(), "seed %d", seed)
		assert.LessOrEqual(t, s.Board.Height(), 8)
		for y := range s.Board.Height() {
			assert.False(t, s.Board.IsRowFull(y), "seed %d row %d", seed, y)
		}
	}
}

func TestGeneratedPiecesRest(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		s := generate(t, seed, 10, true)

		field := board.New(0)
		for _, p := range s.Placements {
			cells := p.Cells()
			resting := false
			for _, c := range cells {
				require.Equal(t, board.Empty, field.At(c.X, c.Y))
				if c.Y == 0 || field.At(c.X, c.Y-1) != board.Empty {
					resting = true
				}
			}
			require.True(t, resting, "seed %d: %v floats", seed, p)
			require.NoError(t, field.FillCells(cells[:], p.Piece))
			field, _ = field.RemoveFullRows()
		}
	}
}

func TestReconstructDecomposedStacks(t *testing.T) {
	keep := assembler.New(&assembler.Options{KeepClearedRows: true})
	for _, clears := range []bool{false, true} {
		for seed := int64(1); seed <= 25; seed++ {
			s := generate(t, seed, 5, clears)

			results, err := solver.Decompose(s.Board, false)
			require.NoError(t, err, "seed %d clears %v\n%s", seed, clears, s.Board.Format())
			require.Len(t, results, 1)
			assert.Len(t, results[0].Placements, 5)

			res, err := keep.Assemble(s.Board.EmptyField(), results[0].Operations())
			require.NoError(t, err)
			assert.Empty(t, res.Overlaps)
			assert.True(t, res.Board.SameOccupancy(s.Board), "seed %d", seed)
			assert.True(t, res.Board.Equal(s.Board), "seed %d", seed)
		}
	}
}

func TestGenerateInvalidCount(t *testing.T) {
	_, err := New(&Options{Pieces: 0, MaxHeight: 8}).Generate()
	assert.ErrorIs(t, err, ErrInvalidPieceCount)

	opts := DefaultOptions(1000)
	assert.Equal(t, MaxPieces, opts.Pieces)
}

func TestGenerateStack(t *testing.T) {
	s, err := GenerateStack(3)
	require.NoError(t, err)
	assert.Len(t, s.Placements, 3)
}
