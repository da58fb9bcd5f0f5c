package board

import "fmt"

// Variant is one distinct orientation of a piece as seen by the
// decomposition scan. Offsets are relative to the variant's origin, the
// lowest then leftmost of its cells, which is where a bottom-up,
// left-to-right scan first meets the piece. Offsets[0] is the anchor
// reported in placements.
//
// Variants are immutable after package init.
type Variant struct {
	Rotation Rotation
	Offsets  [4]Point
}

// Anchor returns the anchor position of the variant when its origin lies
// at (x, y).
func (v Variant) Anchor(x, y int) Point {
	return Point{x + v.Offsets[0].X, y + v.Offsets[0].Y}
}

// catalog lists every distinct variant per piece. The order is
// load-bearing: decompositions are discovered, and in single-result mode
// chosen, in this order.
var catalog = map[Cell][]Variant{
	I: {
		{Spawn, [4]Point{{1, 0}, {0, 0}, {2, 0}, {3, 0}}},
		{Left, [4]Point{{0, 1}, {0, 0}, {0, 2}, {0, 3}}},
	},
	L: {
		{Spawn, [4]Point{{1, 0}, {0, 0}, {2, 0}, {2, 1}}},
		{Left, [4]Point{{0, 1}, {0, 0}, {0, 2}, {-1, 2}}},
		{Reverse, [4]Point{{1, 1}, {0, 0}, {0, 1}, {2, 1}}},
		{Right, [4]Point{{0, 1}, {0, 0}, {1, 0}, {0, 2}}},
	},
	O: {
		{Spawn, [4]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	},
	Z: {
		{Spawn, [4]Point{{0, 0}, {1, 0}, {-1, 1}, {0, 1}}},
		{Left, [4]Point{{1, 1}, {0, 0}, {0, 1}, {1, 2}}},
	},
	T: {
		{Spawn, [4]Point{{1, 0}, {0, 0}, {1, 1}, {2, 0}}},
		{Left, [4]Point{{0, 1}, {0, 0}, {-1, 1}, {0, 2}}},
		{Reverse, [4]Point{{0, 1}, {0, 0}, {-1, 1}, {1, 1}}},
		{Right, [4]Point{{0, 1}, {0, 0}, {1, 1}, {0, 2}}},
	},
	J: {
		{Spawn, [4]Point{{1, 0}, {0, 0}, {0, 1}, {2, 0}}},
		{Left, [4]Point{{1, 1}, {0, 0}, {1, 0}, {1, 2}}},
		{Reverse, [4]Point{{-1, 1}, {0, 0}, {-2, 1}, {0, 1}}},
		{Right, [4]Point{{0, 1}, {0, 0}, {0, 2}, {1, 2}}},
	},
	S: {
		{Spawn, [4]Point{{1, 0}, {0, 0}, {1, 1}, {2, 1}}},
		{Left, [4]Point{{0, 1}, {0, 0}, {-1, 1}, {-1, 2}}},
	},
}

// Variants returns the distinct orientations of piece in catalog order.
// The returned slice must not be modified.
func Variants(piece Cell) []Variant {
	return catalog[piece]
}

// Fits reports whether variant v of piece can be lifted off the board
// with its origin at (x, y), returning the covered cells.
//
// All four cells must lie on the board and hold exactly piece's color,
// and at least one of them must rest on the floor or on a settled cell.
func (b *Board) Fits(piece Cell, v Variant, x, y int) ([4]Point, bool) {
	var cells [4]Point
	for i, d := range v.Offsets {
		px, py := x+d.X, y+d.Y
		if px < 0 || px >= Width || py < 0 || py >= len(b.rows) {
			return [4]Point{}, false
		}
		if b.rows[py][px] != piece {
			return [4]Point{}, false
		}
		cells[i] = Point{px, py}
	}
	return cells, b.grounded(cells)
}

// MarkPlaced overwrites cells returned by Fits with the Placed marker.
func (b *Board) MarkPlaced(cells [4]Point) {
	for _, p := range cells {
		b.set(p.X, p.Y, Placed)
	}
}

// grounded reports whether any of cells rests on the floor or on a
// settled cell of the current board.
func (b *Board) grounded(cells [4]Point) bool {
	for _, p := range cells {
		if p.Y == 0 || b.At(p.X, p.Y-1).IsSettled() {
			return true
		}
	}
	return false
}

// validateVariant checks the catalog invariants for one variant: four
// distinct cells, origin at (0,0) being the lowest-leftmost cell, the
// cell set matching Cells for the variant's rotation, and orthogonal
// connectivity.
func validateVariant(piece Cell, v Variant) error {
	seen := make(map[Point]bool, 4)
	hasOrigin := false
	for _, p := range v.Offsets {
		if seen[p] {
			return fmt.Errorf("duplicate cell %v", p)
		}
		seen[p] = true
		if p.Y < 0 || (p.Y == 0 && p.X < 0) {
			return fmt.Errorf("cell %v lies before the origin", p)
		}
		if p == (Point{}) {
			hasOrigin = true
		}
	}
	if !hasOrigin {
		return fmt.Errorf("origin missing")
	}

	anchor := v.Offsets[0]
	for _, d := range Cells(piece, v.Rotation) {
		if !seen[Point{anchor.X + d.X, anchor.Y + d.Y}] {
			return fmt.Errorf("cells disagree with %v rotation", v.Rotation)
		}
	}

	// Flood fill from the origin.
	visited := map[Point]bool{{}: true}
	queue := []Point{{}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, nb := range [4]Point{{p.X - 1, p.Y}, {p.X + 1, p.Y}, {p.X, p.Y - 1}, {p.X, p.Y + 1}} {
			if seen[nb] && !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	if len(visited) != 4 {
		return fmt.Errorf("cells are not connected")
	}
	return nil
}

func init() {
	for _, piece := range Pieces {
		variants := catalog[piece]
		if len(variants) == 0 || len(variants) > 4 {
			panic(fmt.Sprintf("board: %v has %d variants", piece, len(variants)))
		}
		for _, v := range variants {
			if err := validateVariant(piece, v); err != nil {
				// The catalog is hard-coded; this is always a bug.
				panic(fmt.Sprintf("board: %v %v variant: %v", piece, v.Rotation, err))
			}
		}
	}
}
