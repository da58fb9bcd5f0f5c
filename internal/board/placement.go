package board

import "fmt"

// Point is a column/row pair, either absolute or relative to an anchor.
type Point struct {
	X, Y int
}

// Rotation is the orientation of a placed piece.
type Rotation uint8

const (
	Spawn Rotation = iota
	Right
	Reverse
	Left
)

var rotationNames = [...]string{"spawn", "right", "reverse", "left"}

func (r Rotation) String() string {
	if int(r) < len(rotationNames) {
		return rotationNames[r]
	}
	return fmt.Sprintf("rotation(%d)", r)
}

// Placement is a single piece dropped at a rotation and anchor position.
// Y is measured after every row clear that happened before this placement.
type Placement struct {
	Piece    Cell
	Rotation Rotation
	X, Y     int
}

// AbsolutePlacement adds the anchor row the placement would have if no
// cleared row had ever been compacted away.
type AbsolutePlacement struct {
	Placement
	AbsY int
}

func (p Placement) String() string {
	return fmt.Sprintf("%s-%s@(%d,%d)", p.Piece, p.Rotation, p.X, p.Y)
}

// Cells returns the four board positions the placement covers.
func (p Placement) Cells() [4]Point {
	var out [4]Point
	for i, d := range Cells(p.Piece, p.Rotation) {
		out[i] = Point{p.X + d.X, p.Y + d.Y}
	}
	return out
}

// spawnShapes holds each piece in spawn orientation relative to its
// anchor, the first entry always being the anchor itself.
var spawnShapes = map[Cell][4]Point{
	I: {{0, 0}, {-1, 0}, {1, 0}, {2, 0}},
	L: {{0, 0}, {-1, 0}, {1, 0}, {1, 1}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	Z: {{0, 0}, {1, 0}, {0, 1}, {-1, 1}},
	T: {{0, 0}, {-1, 0}, {1, 0}, {0, 1}},
	J: {{0, 0}, {-1, 0}, {1, 0}, {-1, 1}},
	S: {{0, 0}, {-1, 0}, {0, 1}, {1, 1}},
}

// Cells returns the anchor-relative cells of piece in any rotation.
// It panics if piece is not a tetromino.
func Cells(piece Cell, r Rotation) [4]Point {
	shape, ok := spawnShapes[piece]
	if !ok {
		panic(fmt.Sprintf("board: no shape for %v", piece))
	}
	var out [4]Point
	for i, p := range shape {
		switch r & 3 {
		case Spawn:
			out[i] = p
		case Right:
			out[i] = Point{p.Y, -p.X}
		case Reverse:
			out[i] = Point{-p.X, -p.Y}
		case Left:
			out[i] = Point{-p.Y, p.X}
		}
	}
	return out
}
