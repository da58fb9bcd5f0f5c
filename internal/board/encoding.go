package board

import "fmt"

// Code packs an AbsolutePlacement into 20 bits, most significant first:
//
//	piece:4 | rotation:2 | x:4 | absY:5 | y:5
//
// Codes compare cheaply and are used as set members when deduplicating
// decompositions.
type Code uint32

const (
	yBits        = 5
	absYBits     = 5
	xBits        = 4
	rotationBits = 2
	pieceBits    = 4

	// CodeBits is the total width of a Code.
	CodeBits = pieceBits + rotationBits + xBits + absYBits + yBits

	absYShift     = yBits
	xShift        = absYShift + absYBits
	rotationShift = xShift + xBits
	pieceShift    = rotationShift + rotationBits

	yMask = 1<<yBits - 1

	// KeyMask clears the y field, the only part of a Code that depends on
	// how many rows were compacted before the placement.
	KeyMask Code = (1<<CodeBits - 1) &^ yMask
)

// Encode packs p into a Code. Fields that do not fit their bit width
// yield ErrUnrepresentable.
func Encode(p AbsolutePlacement) (Code, error) {
	fields := [...]struct {
		name string
		val  int
		bits int
	}{
		{"piece", int(p.Piece), pieceBits},
		{"rotation", int(p.Rotation), rotationBits},
		{"x", p.X, xBits},
		{"absY", p.AbsY, absYBits},
		{"y", p.Y, yBits},
	}

	var c Code
	for _, f := range fields {
		if f.val < 0 || f.val >= 1<<f.bits {
			return 0, fmt.Errorf("%w: %s=%d does not fit %d bits", ErrUnrepresentable, f.name, f.val, f.bits)
		}
		c = c<<f.bits | Code(f.val)
	}
	return c, nil
}

// MustEncode is Encode for values known to be in range.
func MustEncode(p AbsolutePlacement) Code {
	c, err := Encode(p)
	if err != nil {
		panic("board: " + err.Error())
	}
	return c
}

// Decode unpacks the Code. Decode(Encode(p)) == p for every
// representable p.
func (c Code) Decode() AbsolutePlacement {
	return AbsolutePlacement{
		Placement: c.Placement(),
		AbsY:      int(c>>absYShift) & (1<<absYBits - 1),
	}
}

// Placement unpacks the Code without its absolute row.
func (c Code) Placement() Placement {
	return Placement{
		Piece:    Cell(c>>pieceShift) & (1<<pieceBits - 1),
		Rotation: Rotation(c>>rotationShift) & (1<<rotationBits - 1),
		X:        int(c>>xShift) & (1<<xBits - 1),
		Y:        int(c) & yMask,
	}
}

// Key returns the Code with its clear-dependent y field masked off.
// Two placements with equal keys put the same piece, in the same
// orientation, on the same squares of the uncompacted board.
func (c Code) Key() Code {
	return c & KeyMask
}
