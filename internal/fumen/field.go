package fumen

import (
	"fmt"

	"github.com/rybkr/setupdb/internal/board"
)

const (
	// FieldHeight is the number of playfield rows a document stores.
	FieldHeight = 23

	fieldBlocks = (FieldHeight + 1) * board.Width
)

// field is the decoder's view of one page: the playfield plus the garbage
// row beneath it.
type field struct {
	play    [FieldHeight][board.Width]board.Cell
	garbage [board.Width]board.Cell
}

// block addresses cells in document order: top row first, garbage last.
func (f *field) block(i int) *board.Cell {
	x, y := i%board.Width, FieldHeight-1-i/board.Width
	if y < 0 {
		return &f.garbage[x]
	}
	return &f.play[y][x]
}

func fieldFrom(b *board.Board, garbage [board.Width]board.Cell) (field, error) {
	var f field
	for y := range b.Height() {
		for x, c := range b.Row(y) {
			if c == board.Empty {
				continue
			}
			if c > board.Garbage {
				return field{}, fmt.Errorf("%w: cell %v at (%d,%d) has no document value", ErrEncode, c, x, y)
			}
			if y >= FieldHeight {
				return field{}, fmt.Errorf("%w: cell at (%d,%d) above row %d", ErrEncode, x, y, FieldHeight-1)
			}
			f.play[y][x] = c
		}
	}
	for x, c := range garbage {
		if c > board.Garbage {
			return field{}, fmt.Errorf("%w: garbage cell %v has no document value", ErrEncode, c)
		}
		f.garbage[x] = c
	}
	return f, nil
}

// toBoard returns the playfield with empty top rows trimmed.
func (f *field) toBoard() *board.Board {
	b := board.New(FieldHeight)
	for y, row := range f.play {
		for x, c := range row {
			if c != board.Empty {
				// Cannot fail: positions and cells come from a valid field.
				_ = b.Fill(x, y, c)
			}
		}
	}
	return b.Trim()
}

// lock applies a page's operation the way a viewer advances to the next
// page: drop the piece, clear full rows, then rise and mirror.
func (f *field) lock(op *board.Placement, rise, mirror bool) error {
	if op != nil {
		for _, c := range op.Cells() {
			if c.X < 0 || c.X >= board.Width || c.Y < 0 || c.Y >= FieldHeight {
				return fmt.Errorf("operation %v leaves the field at (%d,%d)", op, c.X, c.Y)
			}
			f.play[c.Y][c.X] = op.Piece
		}
	}

	f.clearLines()
	if rise {
		f.rise()
	}
	if mirror {
		f.mirror()
	}
	return nil
}

func (f *field) clearLines() {
	n := 0
	for y := range FieldHeight {
		if rowFull(f.play[y]) {
			continue
		}
		f.play[n] = f.play[y]
		n++
	}
	for ; n < FieldHeight; n++ {
		f.play[n] = [board.Width]board.Cell{}
	}
}

func rowFull(row [board.Width]board.Cell) bool {
	for _, c := range row {
		if c == board.Empty {
			return false
		}
	}
	return true
}

// rise pushes the garbage row into the bottom of the playfield.
func (f *field) rise() {
	copy(f.play[1:], f.play[:FieldHeight-1])
	f.play[0] = f.garbage
	f.garbage = [board.Width]board.Cell{}
}

func (f *field) mirror() {
	for y := range f.play {
		row := &f.play[y]
		for l, r := 0, board.Width-1; l < r; l, r = l+1, r-1 {
			row[l], row[r] = row[r], row[l]
		}
	}
}

// decodeField reads a run-length diff against prev. changed is false
// for the single run meaning "same as the previous page".
func decodeField(r *reader, prev *field) (f field, changed bool, err error) {
	f = *prev
	changed = true
	for i := 0; i < fieldBlocks; {
		v, err := r.poll(2)
		if err != nil {
			return field{}, false, err
		}
		diff, n := v/fieldBlocks, v%fieldBlocks+1
		if diff == 8 && n == fieldBlocks {
			changed = false
		}
		if i+n > fieldBlocks {
			return field{}, false, fmt.Errorf("%w: field run overflows by %d blocks", ErrDecode, i+n-fieldBlocks)
		}
		for range n {
			c := f.block(i)
			nv := int(*c) + diff - 8
			if nv < int(board.Empty) || nv > int(board.Garbage) {
				return field{}, false, fmt.Errorf("%w: block %d out of range", ErrDecode, i)
			}
			*c = board.Cell(nv)
			i++
		}
	}
	return f, changed, nil
}

// encodeField writes cur as a run-length diff against prev and reports
// whether anything changed.
func encodeField(w *writer, prev, cur *field) bool {
	changed := false
	run, count := -1, 0
	flush := func() {
		if count > 0 {
			w.push(run*fieldBlocks+count-1, 2)
		}
	}
	for i := range fieldBlocks {
		d := int(*cur.block(i)) - int(*prev.block(i)) + 8
		if d != 8 {
			changed = true
		}
		if d == run {
			count++
			continue
		}
		flush()
		run, count = d, 1
	}
	flush()
	return changed
}
