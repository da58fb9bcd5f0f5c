package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLayout(t *testing.T) {
	c, err := Encode(AbsolutePlacement{
		Placement: Placement{Piece: T, Rotation: Left, X: 9, Y: 2},
		AbsY:      4,
	})
	require.NoError(t, err)

	want := Code(5)<<16 | Code(3)<<14 | Code(9)<<10 | Code(4)<<5 | Code(2)
	assert.Equal(t, want, c)
	assert.Less(t, uint32(c), uint32(1)<<CodeBits)
}

func TestEncodeDecodeInverse(t *testing.T) {
	for piece := Cell(0); piece < 16; piece++ {
		for rot := Rotation(0); rot < 4; rot++ {
			for x := 0; x < 16; x += 3 {
				for y := 0; y < 32; y += 5 {
					for absY := y; absY < 32; absY += 7 {
						p := AbsolutePlacement{
							Placement: Placement{Piece: piece, Rotation: rot, X: x, Y: y},
							AbsY:      absY,
						}
						c, err := Encode(p)
						require.NoError(t, err)
						require.Equal(t, p, c.Decode())
					}
				}
			}
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		p    AbsolutePlacement
	}{
		{"Piece", AbsolutePlacement{Placement: Placement{Piece: 16}}},
		{"Rotation", AbsolutePlacement{Placement: Placement{Piece: I, Rotation: 4}}},
		{"NegativeX", AbsolutePlacement{Placement: Placement{Piece: I, X: -1}}},
		{"Y", AbsolutePlacement{Placement: Placement{Piece: I, Y: 32}}},
		{"AbsY", AbsolutePlacement{Placement: Placement{Piece: I}, AbsY: 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.p)
			assert.ErrorIs(t, err, ErrUnrepresentable)
		})
	}
	assert.Panics(t, func() { MustEncode(tests[0].p) })
}

func TestKeyIgnoresCompactedRow(t *testing.T) {
	before := MustEncode(AbsolutePlacement{Placement: Placement{Piece: O, X: 0, Y: 1}, AbsY: 1})
	after := MustEncode(AbsolutePlacement{Placement: Placement{Piece: O, X: 0, Y: 0}, AbsY: 1})
	other := MustEncode(AbsolutePlacement{Placement: Placement{Piece: O, X: 0, Y: 0}, AbsY: 0})

	assert.NotEqual(t, before, after)
	assert.Equal(t, before.Key(), after.Key())
	assert.NotEqual(t, after.Key(), other.Key())
	assert.Equal(t, Placement{Piece: O, X: 0, Y: 1}, before.Placement())
}
