package fumen

import (
	"fmt"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const base = len(alphabet)

var digitOf = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := range len(alphabet) {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// reader consumes little-endian base-64 numbers.
type reader struct {
	data string
	pos  int
}

func (r *reader) empty() bool {
	return r.pos >= len(r.data)
}

// poll reads an n-digit number.
func (r *reader) poll(n int) (int, error) {
	v, mul := 0, 1
	for range n {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("%w: unexpected end of data at offset %d", ErrDecode, r.pos)
		}
		d := digitOf[r.data[r.pos]]
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid character %q at offset %d", ErrDecode, r.data[r.pos], r.pos)
		}
		v += int(d) * mul
		mul *= base
		r.pos++
	}
	return v, nil
}

// writer accumulates base-64 digits.
type writer struct {
	digits []int
}

// push appends v as n digits, least significant first.
func (w *writer) push(v, n int) {
	for range n {
		w.digits = append(w.digits, v%base)
		v /= base
	}
}

func (w *writer) merge(other *writer) {
	w.digits = append(w.digits, other.digits...)
}

func (w *writer) String() string {
	var sb strings.Builder
	sb.Grow(len(w.digits))
	for _, d := range w.digits {
		sb.WriteByte(alphabet[d])
	}
	return sb.String()
}
