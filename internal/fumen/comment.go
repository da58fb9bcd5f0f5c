package fumen

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

const (
	commentTable = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"
	commentRadix = len(commentTable) + 1

	// MaxCommentLength bounds a comment after escaping.
	MaxCommentLength = 4095
)

func decodeComment(r *reader) (string, error) {
	n, err := r.poll(2)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for range (n + 3) / 4 {
		v, err := r.poll(5)
		if err != nil {
			return "", err
		}
		for range 4 {
			d := v % commentRadix
			if d >= len(commentTable) {
				return "", fmt.Errorf("%w: invalid comment character at offset %d", ErrDecode, r.pos)
			}
			sb.WriteByte(commentTable[d])
			v /= commentRadix
		}
	}
	return unescape(sb.String()[:n]), nil
}

func encodeComment(w *writer, s string) error {
	esc := escape(s)
	if len(esc) > MaxCommentLength {
		return fmt.Errorf("%w: comment is %d characters escaped, limit %d", ErrEncode, len(esc), MaxCommentLength)
	}

	w.push(len(esc), 2)
	for i := 0; i < len(esc); i += 4 {
		v, mul := 0, 1
		for j := i; j < i+4 && j < len(esc); j++ {
			v += strings.IndexByte(commentTable, esc[j]) * mul
			mul *= commentRadix
		}
		w.push(v, 5)
	}
	return nil
}

// escape follows the legacy JavaScript escape function, which operates
// on UTF-16 code units.
func escape(s string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u < 0x80 && unreserved(byte(u)):
			sb.WriteByte(byte(u))
		case u < 0x100:
			sb.WriteByte('%')
			sb.WriteByte(hex[u>>4])
			sb.WriteByte(hex[u&0xF])
		default:
			sb.WriteString("%u")
			for shift := 12; shift >= 0; shift -= 4 {
				sb.WriteByte(hex[(u>>shift)&0xF])
			}
		}
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("@*_+-./", c) >= 0
}

// unescape reverses escape. Malformed sequences are kept literally.
func unescape(s string) string {
	units := make([]uint16, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+6 <= len(s) && s[i+1] == 'u' {
				if v, ok := parseHex(s[i+2 : i+6]); ok {
					units = append(units, v)
					i += 5
					continue
				}
			}
			if i+3 <= len(s) {
				if v, ok := parseHex(s[i+1 : i+3]); ok {
					units = append(units, v)
					i += 2
					continue
				}
			}
		}
		units = append(units, uint16(s[i]))
	}
	return string(utf16.Decode(units))
}

func parseHex(s string) (uint16, bool) {
	var v uint16
	for i := range len(s) {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		v = v<<4 | uint16(d)
	}
	return v, true
}
