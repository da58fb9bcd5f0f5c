package fumen

import (
	"fmt"

	"github.com/rybkr/setupdb/internal/board"
)

// Documents number rotations from the upside-down orientation.
var (
	rotationToDoc   = [4]int{board.Spawn: 2, board.Right: 1, board.Reverse: 0, board.Left: 3}
	rotationFromDoc = [4]board.Rotation{0: board.Reverse, 1: board.Right, 2: board.Spawn, 3: board.Left}
)

type pieceRotation struct {
	piece    board.Cell
	rotation board.Rotation
}

// centerShift moves a stored location onto the anchor used by
// board.Cells. Pieces not listed are stored at their anchor.
var centerShift = map[pieceRotation]board.Point{
	{board.O, board.Spawn}:   {X: 0, Y: -1},
	{board.O, board.Reverse}: {X: 1, Y: 0},
	{board.O, board.Left}:    {X: 1, Y: -1},
	{board.I, board.Reverse}: {X: 1, Y: 0},
	{board.I, board.Left}:    {X: 0, Y: -1},
	{board.S, board.Spawn}:   {X: 0, Y: -1},
	{board.S, board.Right}:   {X: -1, Y: 0},
	{board.Z, board.Spawn}:   {X: 0, Y: -1},
	{board.Z, board.Left}:    {X: 1, Y: 0},
}

// action is the per-page record following the field.
type action struct {
	op       *board.Placement
	rise     bool
	mirror   bool
	colorize bool
	comment  bool
	lock     bool
}

func decodeAction(v int) action {
	piece := board.Cell(v % 8)
	v /= 8
	rot := v % 4
	v /= 4
	loc := v % fieldBlocks
	v /= fieldBlocks

	a := action{
		rise:     v&1 != 0,
		mirror:   v&2 != 0,
		colorize: v&4 != 0,
		comment:  v&8 != 0,
		lock:     v&16 == 0,
	}
	if piece == board.Empty {
		return a
	}

	r := rotationFromDoc[rot]
	shift := centerShift[pieceRotation{piece, r}]
	a.op = &board.Placement{
		Piece:    piece,
		Rotation: r,
		X:        loc%board.Width + shift.X,
		Y:        FieldHeight - 1 - loc/board.Width + shift.Y,
	}
	return a
}

func encodeAction(a action) (int, error) {
	piece, rot, loc := 0, 0, 0
	if op := a.op; op != nil {
		if !op.Piece.IsPiece() || op.Rotation > board.Left {
			return 0, fmt.Errorf("%w: operation %v", ErrEncode, op)
		}
		shift := centerShift[pieceRotation{op.Piece, op.Rotation}]
		x, y := op.X-shift.X, op.Y-shift.Y
		if x < 0 || x >= board.Width || y < -1 || y >= FieldHeight {
			return 0, fmt.Errorf("%w: operation %v outside the field", ErrEncode, op)
		}
		piece, rot, loc = int(op.Piece), rotationToDoc[op.Rotation], (FieldHeight-1-y)*board.Width+x
	}

	v := 0
	for _, flag := range []bool{!a.lock, a.comment, a.colorize, a.mirror, a.rise} {
		v *= 2
		if flag {
			v++
		}
	}
	v = v*fieldBlocks + loc
	v = v*4 + rot
	v = v*8 + piece
	return v, nil
}
