package board

import (
	"fmt"
	"strings"
)

// Board dimensions
const (
	Width = 10

	// MaxHeight bounds how far a board may grow through Fill.
	MaxHeight = 64
)

// Cell is the content of a single board square.
// Values Empty through Garbage match the block values of the fumen codec.
type Cell uint8

const (
	Empty Cell = iota
	I
	L
	O
	Z
	T
	J
	S
	Garbage

	// Placed marks a cell already accounted for during decomposition.
	// It never appears in boards handed out by the engine.
	Placed

	// Invalid is returned by At for positions outside the board.
	Invalid Cell = 0xFF
)

// Pieces lists the seven tetromino kinds in their numeric order.
var Pieces = [...]Cell{I, L, O, Z, T, J, S}

const cellRunes = "_ILOZTJSX#"

// IsPiece reports whether c is one of the seven tetromino colors.
func (c Cell) IsPiece() bool {
	return c >= I && c <= S
}

// IsSettled reports whether c can support a piece resting on it:
// garbage, or a cell whose piece has already been placed.
func (c Cell) IsSettled() bool {
	return c == Garbage || c == Placed
}

// IsFilled reports whether c occupies its square.
func (c Cell) IsFilled() bool {
	return c != Empty && c != Invalid
}

// String returns the single-letter name used in board diagrams.
func (c Cell) String() string {
	if int(c) < len(cellRunes) {
		return cellRunes[c : c+1]
	}
	return "?"
}

// ParseCell converts a diagram letter back into a Cell.
// Both '_' and '.' denote an empty square.
func ParseCell(r rune) (Cell, error) {
	if r == '.' {
		return Empty, nil
	}
	if i := strings.IndexRune(cellRunes[:Placed], r); i >= 0 {
		return Cell(i), nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrInvalidCell, r)
}

// Board is a fixed-width, variable-height grid of cells.
// Rows are indexed bottom-up: row 0 is the floor.
type Board struct {
	rows [][Width]Cell
}

// New creates an empty Board with the given number of rows.
func New(height int) *Board {
	height = min(max(height, 0), MaxHeight)
	return &Board{rows: make([][Width]Cell, height)}
}

// NewFromString parses a board diagram. Lines are given top row first,
// one letter per column (see Cell.String); lines may be separated by
// newlines or '|'. Blank lines are ignored.
func NewFromString(s string) (*Board, error) {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '|'
	})

	var rows [][Width]Cell
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) != Width {
			return nil, fmt.Errorf("row %q must be exactly %d characters, got %d", line, Width, len(line))
		}
		var row [Width]Cell
		for x, r := range line {
			c, err := ParseCell(r)
			if err != nil {
				return nil, fmt.Errorf("invalid board at row %q: %w", line, err)
			}
			row[x] = c
		}
		rows = append(rows, row)
	}
	if len(rows) > MaxHeight {
		return nil, fmt.Errorf("%w: %d rows exceeds %d", ErrInvalidPosition, len(rows), MaxHeight)
	}

	// Diagrams list the top row first.
	b := New(len(rows))
	for i, row := range rows {
		b.rows[len(rows)-1-i] = row
	}
	return b, nil
}

// MustParse is NewFromString for static diagrams; it panics on error.
func MustParse(s string) *Board {
	b, err := NewFromString(s)
	if err != nil {
		panic("board: " + err.Error())
	}
	return b
}

// Clone creates an independent copy of the Board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	rows := make([][Width]Cell, len(b.rows))
	copy(rows, b.rows)
	return &Board{rows: rows}
}

// Height returns the number of rows currently held.
func (b *Board) Height() int {
	return len(b.rows)
}

// At returns the cell at column x, row y.
// Rows above the top of the board read as Empty; positions left, right
// or below the board return Invalid.
func (b *Board) At(x, y int) Cell {
	if x < 0 || x >= Width || y < 0 {
		return Invalid
	}
	if y >= len(b.rows) {
		return Empty
	}
	return b.rows[y][x]
}

// Fill writes c at column x, row y, growing the board if y lies above it.
func (b *Board) Fill(x, y int, c Cell) error {
	if err := validatePosition(x, y); err != nil {
		return err
	}
	if err := validateCell(c); err != nil {
		return err
	}
	b.set(x, y, c)
	return nil
}

// FillCells writes c at every given position.
func (b *Board) FillCells(cells []Point, c Cell) error {
	for _, p := range cells {
		if err := b.Fill(p.X, p.Y, c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) set(x, y int, c Cell) {
	for len(b.rows) <= y {
		b.rows = append(b.rows, [Width]Cell{})
	}
	b.rows[y][x] = c
}

// Row returns a copy of row y. Rows above the board are empty.
func (b *Board) Row(y int) [Width]Cell {
	if y < 0 || y >= len(b.rows) {
		return [Width]Cell{}
	}
	return b.rows[y]
}

// IsRowFull reports whether row y has no empty squares.
func (b *Board) IsRowFull(y int) bool {
	if y < 0 || y >= len(b.rows) {
		return false
	}
	return rowFull(b.rows[y])
}

func rowFull(row [Width]Cell) bool {
	for _, c := range row {
		if c == Empty {
			return false
		}
	}
	return true
}

// RemoveFullRows returns a compacted copy of the board without its full
// rows, plus the removed row indices in ascending order.
// The receiver is left untouched.
func (b *Board) RemoveFullRows() (*Board, []int) {
	return b.RemoveRowsWhere(rowFull)
}

// RemoveRowsWhere is RemoveFullRows with a caller-supplied row predicate.
func (b *Board) RemoveRowsWhere(remove func(row [Width]Cell) bool) (*Board, []int) {
	out := &Board{rows: make([][Width]Cell, 0, len(b.rows))}
	var removed []int
	for y, row := range b.rows {
		if remove(row) {
			removed = append(removed, y)
			continue
		}
		out.rows = append(out.rows, row)
	}
	return out, removed
}

// RemoveRows returns a compacted copy without the listed rows.
// Indices outside the board are ignored.
func (b *Board) RemoveRows(rows []int) *Board {
	drop := make(map[int]bool, len(rows))
	for _, y := range rows {
		drop[y] = true
	}
	out := &Board{rows: make([][Width]Cell, 0, len(b.rows))}
	for y, row := range b.rows {
		if !drop[y] {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// HasColored reports whether any piece-colored cell remains.
func (b *Board) HasColored() bool {
	for _, row := range b.rows {
		for _, c := range row {
			if c.IsPiece() {
				return true
			}
		}
	}
	return false
}

// ColoredCount returns the number of piece-colored cells.
func (b *Board) ColoredCount() int {
	n := 0
	for _, row := range b.rows {
		for _, c := range row {
			if c.IsPiece() {
				n++
			}
		}
	}
	return n
}

// EmptyField returns a copy with every piece-colored cell cleared.
// Garbage is kept.
func (b *Board) EmptyField() *Board {
	out := b.Clone()
	for y := range out.rows {
		for x, c := range out.rows[y] {
			if c.IsPiece() {
				out.rows[y][x] = Empty
			}
		}
	}
	return out
}

// Trim returns a copy without the empty rows at the top.
func (b *Board) Trim() *Board {
	h := len(b.rows)
	for h > 0 && b.rows[h-1] == [Width]Cell{} {
		h--
	}
	out := &Board{rows: make([][Width]Cell, h)}
	copy(out.rows, b.rows[:h])
	return out
}

// Equal reports whether both boards hold the same cells.
// Empty rows at the top do not count.
func (b *Board) Equal(other *Board) bool {
	x, y := b.Trim(), other.Trim()
	if len(x.rows) != len(y.rows) {
		return false
	}
	for i := range x.rows {
		if x.rows[i] != y.rows[i] {
			return false
		}
	}
	return true
}

// SameOccupancy reports whether both boards fill exactly the same squares,
// ignoring which color fills them.
func (b *Board) SameOccupancy(other *Board) bool {
	h := max(len(b.rows), len(other.rows))
	for y := range h {
		for x := range Width {
			if b.At(x, y).IsFilled() != other.At(x, y).IsFilled() {
				return false
			}
		}
	}
	return true
}

// String returns the trimmed board as a diagram, top row first, rows
// separated by newlines. An empty board yields "".
func (b *Board) String() string {
	t := b.Trim()
	var sb strings.Builder
	sb.Grow(len(t.rows) * (Width + 1))

	for y := len(t.rows) - 1; y >= 0; y-- {
		for _, c := range t.rows[y] {
			sb.WriteString(c.String())
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Format returns a human-readable board with walls and a floor.
// Empty squares are drawn as '.'.
func (b *Board) Format() string {
	t := b.Trim()
	var sb strings.Builder

	for y := len(t.rows) - 1; y >= 0; y-- {
		sb.WriteByte('|')
		for _, c := range t.rows[y] {
			if c == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteString(c.String())
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", Width) + "+\n")

	return sb.String()
}
