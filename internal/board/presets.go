package board

import (
	"fmt"
	"sort"
)

// presets is a small collection of hand-built setups used for examples
// and tests. Diagrams list the top row first.
//
// Invariants (verified at package init): every preset parses and its
// colored cell count is a multiple of four.
var presets = map[string]string{
	// A single O on the floor.
	"o": "" +
		"OO........\n" +
		"OO........",

	// A flat I in the middle of the floor.
	"i-flat": "" +
		"...IIII...",

	// An O that can only go down after the I beneath it.
	"o-on-i": "" +
		"OO........\n" +
		"OO........\n" +
		"IIII......",

	// Four pieces completing the bottom row.
	"full-row": "" +
		".........I\n" +
		".........I\n" +
		"....OOJ..I\n" +
		"IIIIOOJJJI",

	// The left O may be dropped before or after the bottom row clears.
	"clear-under-o": "" +
		"OO........\n" +
		"OO......OO\n" +
		"IIIIIIIIOO",

	// Two stacked Os on a garbage row that is already full.
	"full-garbage-row": "" +
		"OO........\n" +
		"OO........\n" +
		"OO........\n" +
		"OO........\n" +
		"XXXXXXXXXX",

	// T, L and J around a garbage floor.
	"garbage-tlj": "" +
		"..T...L...\n" +
		".TTTLLLJ..\n" +
		"XXXXXXXJJJ",
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named preset board.
func Preset(name string) (*Board, error) {
	diagram, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return NewFromString(diagram)
}

func init() {
	for name, diagram := range presets {
		b, err := NewFromString(diagram)
		if err != nil {
			panic(fmt.Sprintf("board: preset %q: %v", name, err))
		}
		if b.ColoredCount()%4 != 0 {
			panic(fmt.Sprintf("board: preset %q has %d colored cells", name, b.ColoredCount()))
		}
	}
}
