package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSizes(t *testing.T) {
	want := map[Cell]int{I: 2, L: 4, O: 1, Z: 2, T: 4, J: 4, S: 2}
	for piece, n := range want {
		assert.Len(t, Variants(piece), n, "piece %v", piece)
	}
	assert.Empty(t, Variants(Garbage))
}

func TestCatalogMatchesCells(t *testing.T) {
	for _, piece := range Pieces {
		for _, v := range Variants(piece) {
			require.NoError(t, validateVariant(piece, v), "%v %v", piece, v.Rotation)
		}
	}
}

func TestCellsRotations(t *testing.T) {
	assert.ElementsMatch(t, []Point{{0, 0}, {0, 1}, {0, -1}, {0, -2}}, Cells(I, Right))
	assert.ElementsMatch(t, []Point{{0, 0}, {1, 0}, {-1, 0}, {0, -1}}, Cells(T, Reverse))
	assert.ElementsMatch(t, []Point{{0, 0}, {0, -1}, {0, 1}, {-1, -1}}, Cells(J, Left))
	assert.Panics(t, func() { Cells(Garbage, Spawn) })
}

func TestFits(t *testing.T) {
	b := MustParse("" +
		"OO........\n" +
		"OO........\n" +
		"IIII......")

	o := Variants(O)[0]
	_, ok := b.Fits(O, o, 0, 1)
	assert.False(t, ok, "O rests on an unplaced I")

	i := Variants(I)[0]
	cells, ok := b.Fits(I, i, 0, 0)
	require.True(t, ok)
	assert.Equal(t, [4]Point{{1, 0}, {0, 0}, {2, 0}, {3, 0}}, cells)

	placed := b.Clone()
	require.NoError(t, placed.FillCells(cells[:], Placed))
	_, ok = placed.Fits(O, o, 0, 1)
	assert.True(t, ok, "O rests on the placed I")

	_, ok = b.Fits(I, Variants(I)[1], 0, 0)
	assert.False(t, ok, "vertical I does not match the colors")

	_, ok = b.Fits(I, i, 7, 0)
	assert.False(t, ok, "out of bounds")
}

func TestFitsOnGarbage(t *testing.T) {
	b := MustParse("" +
		".TTT......\n" +
		"XXX.......")
	_, ok := b.Fits(T, Variants(T)[2], 2, 1)
	assert.False(t, ok, "reverse T needs a cell below row 1")

	cells, ok := b.Fits(T, Variants(T)[0], 1, 1)
	assert.False(t, ok, "spawn T needs its nub above")
	assert.Equal(t, [4]Point{}, cells)
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	require.NotEmpty(t, names)
	for _, name := range names {
		b, err := Preset(name)
		require.NoError(t, err, name)
		assert.Zero(t, b.ColoredCount()%4, name)
	}

	_, err := Preset("missing")
	assert.Error(t, err)
}
