package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition = errors.New("position out of bounds")
	ErrInvalidCell     = errors.New("invalid cell value")
	ErrUnrepresentable = errors.New("placement cannot be encoded")
)

// isValidPosition reports whether (x, y) can be written on a board.
func isValidPosition(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < MaxHeight
}

// validatePosition checks if a position is within board bounds.
func validatePosition(x, y int) error {
	if !isValidPosition(x, y) {
		return fmt.Errorf("%w: (%d, %d) must be in [0, %d) x [0, %d)", ErrInvalidPosition, x, y, Width, MaxHeight)
	}
	return nil
}

// validateCell rejects values outside the Cell enumeration.
func validateCell(c Cell) error {
	if c > Placed {
		return fmt.Errorf("%w: %d", ErrInvalidCell, c)
	}
	return nil
}
