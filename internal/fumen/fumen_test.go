package fumen

import (
	"strings"
	"testing"

	"github.com/rybkr/setupdb/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyDoc = "v115@vhAAgH"

func TestDecodeEmptyPage(t *testing.T) {
	for _, doc := range []string{
		emptyDoc,
		"m115@vhAAgH",
		"d115@vhAAgH",
		"https://fumen.zui.jp/?v115@vhAAgH",
		"  v115@vh?AAgH\n",
	} {
		pages, err := Decode(doc)
		require.NoError(t, err, doc)
		require.Len(t, pages, 1)

		p := pages[0]
		assert.Zero(t, p.Field.Height())
		assert.Nil(t, p.Operation)
		assert.Empty(t, p.Comment)
		assert.Equal(t, Flags{}, p.Flags)
	}
}

func TestEncodeEmptyPage(t *testing.T) {
	doc, err := Encode([]Page{{}})
	require.NoError(t, err)
	assert.Equal(t, emptyDoc, doc)

	doc, err = Encode([]Page{{Field: board.New(5)}})
	require.NoError(t, err)
	assert.Equal(t, emptyDoc, doc)
}

func TestRoundTripWithLineClear(t *testing.T) {
	pages := []Page{
		{
			Field:     board.MustParse("XXXXXXXXX."),
			Operation: &board.Placement{Piece: board.I, Rotation: board.Left, X: 9, Y: 1},
			Comment:   "clear",
		},
		{Operation: &board.Placement{Piece: board.O, Rotation: board.Spawn, X: 0, Y: 0}},
		{
			Operation: &board.Placement{Piece: board.T, Rotation: board.Reverse, X: 4, Y: 1},
			Comment:   "t spin?",
		},
	}

	doc, err := Encode(pages)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(doc, "v115@"))

	got, err := Decode(doc)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "XXXXXXXXX_", got[0].Field.String())
	assert.Equal(t, "_________I\n_________I\n_________I", got[1].Field.String())
	assert.Equal(t, "_________I\nOO_______I\nOO_______I", got[2].Field.String())

	for i := range pages {
		assert.Equal(t, pages[i].Operation, got[i].Operation, "page %d", i)
		assert.Equal(t, Flags{}, got[i].Flags)
	}
	assert.Equal(t, []string{"clear", "clear", "t spin?"},
		[]string{got[0].Comment, got[1].Comment, got[2].Comment})

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestRoundTripEveryOperation(t *testing.T) {
	for _, piece := range board.Pieces {
		for r := board.Spawn; r <= board.Left; r++ {
			op := &board.Placement{Piece: piece, Rotation: r, X: 4, Y: 5}
			doc, err := Encode([]Page{{Operation: op, Flags: Flags{NoLock: true}}})
			require.NoError(t, err)

			pages, err := Decode(doc)
			require.NoError(t, err)
			require.Len(t, pages, 1)
			assert.Equal(t, op, pages[0].Operation, "%v", op)
			assert.True(t, pages[0].Flags.NoLock)
		}
	}
}

func TestRiseAndMirror(t *testing.T) {
	var garbage [board.Width]board.Cell
	for x := range 5 {
		garbage[x] = board.Garbage
	}

	doc, err := Encode([]Page{
		{Field: board.MustParse("IIII......"), Garbage: garbage, Flags: Flags{Rise: true}},
		{Flags: Flags{Mirror: true}},
		{},
	})
	require.NoError(t, err)

	pages, err := Decode(doc)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, garbage, pages[0].Garbage)
	assert.Equal(t, "IIII______\nXXXXX_____", pages[1].Field.String())
	assert.Equal(t, [board.Width]board.Cell{}, pages[1].Garbage)
	assert.Equal(t, "______IIII\n_____XXXXX", pages[2].Field.String())
	assert.True(t, pages[0].Flags.Rise)
	assert.True(t, pages[1].Flags.Mirror)
}

func TestRepeatedPages(t *testing.T) {
	pages := make([]Page, 70)
	doc, err := Encode(pages)
	require.NoError(t, err)
	assert.Contains(t, doc, "?")

	got, err := Decode(doc)
	require.NoError(t, err)
	assert.Len(t, got, 70)
	for _, p := range got {
		assert.Zero(t, p.Field.Height())
	}
}

func TestColorizeKeptPerPage(t *testing.T) {
	doc, err := Encode([]Page{{Flags: Flags{NoColorize: true}}, {}})
	require.NoError(t, err)

	pages, err := Decode(doc)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.True(t, pages[0].Flags.NoColorize)
	assert.False(t, pages[1].Flags.NoColorize)
}

func TestReencodeKeepsEditorDocument(t *testing.T) {
	// Written by the online editor, which sets the colorize bit on every page.
	const doc = "v115@GhwhDeR4CewhBewwR4wwBtAewhAe1wBtwhJeAgH9gw?hh0R4BthlAewhg0R4BeBtglAewhg0FeglAewhSeAgH"

	pages, err := Decode(doc)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.False(t, p.Flags.NoColorize)
		assert.Nil(t, p.Operation)
	}

	got, err := Encode(pages)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestCommentRoundTrip(t *testing.T) {
	for _, c := range []string{"a", "hello world", "100% T-spin!", "日本語 🎮", strings.Repeat("x", MaxCommentLength)} {
		doc, err := Encode([]Page{{Comment: c}})
		require.NoError(t, err)

		pages, err := Decode(doc)
		require.NoError(t, err)
		assert.Equal(t, c, pages[0].Comment)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a%20b", escape("a b"))
	assert.Equal(t, "@*_+-./", escape("@*_+-./"))
	assert.Equal(t, "%E9", escape("é"))
	assert.Equal(t, "%u65E5", escape("日"))
	assert.Equal(t, "%uD83C%uDFAE", escape("🎮"))

	assert.Equal(t, "é", unescape("%e9"))
	assert.Equal(t, "%zz%", unescape("%zz%"))
	assert.Equal(t, "%u12", unescape("%u12"))
}

func TestDecodeErrors(t *testing.T) {
	// A stored I flat against the left wall hangs outside the field.
	w := &writer{}
	w.push(8*fieldBlocks+fieldBlocks-1, 2)
	w.push(0, 1)
	v, err := encodeAction(action{op: &board.Placement{Piece: board.I, Rotation: board.Spawn}, lock: true})
	require.NoError(t, err)
	w.push(v, 3)

	tests := []struct {
		name string
		doc  string
	}{
		{"Empty", ""},
		{"NoPages", "v115@"},
		{"OldVersion", "v110@vhAAgH"},
		{"BadPrefix", "x115@vhAAgH"},
		{"BadCharacter", "v115@v!AAgH"},
		{"Truncated", "v115@vh"},
		{"TrailingGarbage", "v115@vhAAgHvh"},
		{"BlockValue", "v115@/hAAgH"},
		{"OperationOutside", "v115@" + w.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Decode(tt.doc)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, pages)
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tall := board.New(0)
	require.NoError(t, tall.Fill(0, FieldHeight, board.I))
	placed := board.New(0)
	require.NoError(t, placed.Fill(0, 0, board.Placed))

	tests := []struct {
		name  string
		pages []Page
	}{
		{"NoPages", nil},
		{"TooTall", []Page{{Field: tall}}},
		{"PlacedCell", []Page{{Field: placed}}},
		{"LongComment", []Page{{Comment: strings.Repeat("日", 700)}}},
		{"OperationOutside", []Page{{Operation: &board.Placement{Piece: board.I, Rotation: board.Spawn, X: 0, Y: 0}}}},
		{"NotAPiece", []Page{{Operation: &board.Placement{Piece: board.Garbage}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.pages)
			assert.ErrorIs(t, err, ErrEncode)
		})
	}
}

func TestLockedField(t *testing.T) {
	p := Page{
		Field:     board.MustParse("XXXXXXXXX."),
		Operation: &board.Placement{Piece: board.I, Rotation: board.Left, X: 9, Y: 1},
	}
	b, err := p.LockedField()
	require.NoError(t, err)
	assert.Equal(t, "_________I\n_________I\n_________I", b.String())
}
