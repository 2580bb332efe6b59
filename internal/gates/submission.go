package gates

import (
	"fmt"
	"strings"
)

// Submission is what a participant hands in for a gate: either typed text
// or a tile layout.
type Submission struct {
	text   string
	tiles  []string
	layout bool
}

// Text builds a typed-text submission.
func Text(s string) Submission {
	return Submission{text: s}
}

// Layout builds a tile-layout submission. Empty strings are empty slots.
func Layout(tiles ...string) Submission {
	return Submission{tiles: append([]string(nil), tiles...), layout: true}
}

// Text returns the typed text. For a layout it is the tiles joined with
// single spaces.
func (s Submission) Text() string {
	if s.layout {
		return strings.Join(s.tiles, " ")
	}
	return s.text
}

// Tiles returns the layout slots. Typed text is treated as one tile per
// whitespace-separated field.
func (s Submission) Tiles() []string {
	if s.layout {
		return append([]string(nil), s.tiles...)
	}
	return strings.Fields(s.text)
}

// Recorded returns the value stored in the attempt log: the normalized text,
// or the quoted slot list for a layout.
func (s Submission) Recorded() string {
	if s.layout {
		return fmt.Sprintf("%q", s.tiles)
	}
	return Normalize(s.text)
}
