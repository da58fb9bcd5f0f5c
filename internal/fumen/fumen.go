// Package fumen reads and writes v115 board-history documents, the
// page-by-page field format shared by Tetris setup tools.
package fumen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rybkr/setupdb/internal/board"
)

var (
	ErrDecode = errors.New("malformed document")
	ErrEncode = errors.New("cannot encode document")
)

// Flags are the per-page switches. The zero value is the common case:
// lock the piece, no rise, no mirror, guideline colors.
type Flags struct {
	NoLock     bool // keep the operation floating when moving to the next page
	Rise       bool // push the garbage row up after locking
	Mirror     bool // flip the field horizontally after locking
	NoColorize bool // grey pieces; viewers follow the first page's setting
}

// Page is one frame of a document.
type Page struct {
	// Field is the playfield shown on the page, before its operation.
	// When encoding, a nil Field continues from the previous page after
	// its lock, and Garbage is ignored.
	Field   *board.Board
	Garbage [board.Width]board.Cell

	Operation *board.Placement
	Comment   string
	Flags     Flags
}

const version = "115@"

// Decode parses a document. Besides the bare "v115@" form it accepts the
// "m115@" and "d115@" prefixes, surrounding URLs, and '?' separators.
func Decode(doc string) ([]Page, error) {
	data, err := payload(doc)
	if err != nil {
		return nil, err
	}

	r := &reader{data: data}
	var (
		pages   []Page
		prev    field
		repeat  int
		comment string
	)
	for !r.empty() {
		var cur field
		if repeat > 0 {
			cur = prev
			repeat--
		} else {
			var changed bool
			cur, changed, err = decodeField(r, &prev)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", len(pages), err)
			}
			if !changed {
				if repeat, err = r.poll(1); err != nil {
					return nil, fmt.Errorf("page %d: %w", len(pages), err)
				}
			}
		}

		v, err := r.poll(3)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", len(pages), err)
		}
		a := decodeAction(v)

		if a.comment {
			if comment, err = decodeComment(r); err != nil {
				return nil, fmt.Errorf("page %d: %w", len(pages), err)
			}
		} else if len(pages) == 0 {
			comment = ""
		}

		pages = append(pages, Page{
			Field:     cur.toBoard(),
			Garbage:   cur.garbage,
			Operation: a.op,
			Comment:   comment,
			Flags: Flags{
				NoLock:     !a.lock,
				Rise:       a.rise,
				Mirror:     a.mirror,
				NoColorize: !a.colorize,
			},
		})

		if a.lock {
			if err := cur.lock(a.op, a.rise, a.mirror); err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", ErrDecode, len(pages)-1, err)
			}
		}
		prev = cur
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrDecode)
	}
	return pages, nil
}

func payload(doc string) (string, error) {
	i := strings.Index(doc, version)
	if i < 1 {
		return "", fmt.Errorf("%w: missing %q prefix", ErrDecode, "v"+version)
	}
	switch doc[i-1] {
	case 'v', 'm', 'd':
	default:
		return "", fmt.Errorf("%w: unsupported prefix %q", ErrDecode, doc[i-1:i+len(version)])
	}
	return strings.ReplaceAll(strings.TrimSpace(doc[i+len(version):]), "?", ""), nil
}

// Encode writes pages as a "v115@" document.
func Encode(pages []Page) (string, error) {
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no pages", ErrEncode)
	}

	w := &writer{}
	var prev field
	lastRepeat := -1
	prevComment := ""

	for i, p := range pages {
		cur := prev
		if p.Field != nil {
			var err error
			if cur, err = fieldFrom(p.Field, p.Garbage); err != nil {
				return "", fmt.Errorf("page %d: %w", i, err)
			}
		}

		diff := &writer{}
		switch {
		case encodeField(diff, &prev, &cur):
			w.merge(diff)
			lastRepeat = -1
		case lastRepeat < 0 || w.digits[lastRepeat] == base-1:
			w.merge(diff)
			w.push(0, 1)
			lastRepeat = len(w.digits) - 1
		default:
			w.digits[lastRepeat]++
		}

		a := action{
			op:       p.Operation,
			rise:     p.Flags.Rise,
			mirror:   p.Flags.Mirror,
			colorize: !p.Flags.NoColorize,
			comment:  p.Comment != prevComment,
			lock:     !p.Flags.NoLock,
		}
		v, err := encodeAction(a)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		w.push(v, 3)

		if a.comment {
			if err := encodeComment(w, p.Comment); err != nil {
				return "", fmt.Errorf("page %d: %w", i, err)
			}
			prevComment = p.Comment
		}

		if a.lock {
			if err := cur.lock(p.Operation, a.rise, a.mirror); err != nil {
				return "", fmt.Errorf("%w: page %d: %v", ErrEncode, i, err)
			}
		}
		prev = cur
	}

	return "v" + version + split(w.String()), nil
}

// split inserts the '?' separators viewers expect: one after the first
// 42 characters, then one every 47.
func split(data string) string {
	const head, chunk = 42, 47
	if len(data) < 41 {
		return data
	}

	var sb strings.Builder
	sb.WriteString(data[:min(head, len(data))])
	for rest := data[min(head, len(data)):]; rest != ""; {
		n := min(chunk, len(rest))
		sb.WriteByte('?')
		sb.WriteString(rest[:n])
		rest = rest[n:]
	}
	return sb.String()
}

// LockedField returns the playfield after the page's operation is
// locked, the state the next page starts from. NoLock is not consulted.
func (p Page) LockedField() (*board.Board, error) {
	f, err := fieldFrom(p.fieldOrEmpty(), p.Garbage)
	if err != nil {
		return nil, err
	}
	if err := f.lock(p.Operation, p.Flags.Rise, p.Flags.Mirror); err != nil {
		return nil, err
	}
	return f.toBoard(), nil
}

func (p Page) fieldOrEmpty() *board.Board {
	if p.Field == nil {
		return board.New(0)
	}
	return p.Field
}
