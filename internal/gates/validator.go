package gates

import (
	"fmt"
	"strings"
)

// Validator decides whether a submission solves a gate.
// Implementations are stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "exact", "containment", "compound".
	Name() string

	// Check reports whether sub is correct.
	Check(sub Submission) Verdict
}

// Verdict is the result of a validator check.
type Verdict struct {
	Correct bool

	// Failure overrides the gate's default failure line when non-empty.
	Failure string
}

// Normalize trims surrounding whitespace and upper-cases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ExactMatch accepts a text submission equal to Answer after normalization.
type ExactMatch struct {
	Answer string
}

func (v ExactMatch) Name() string { return "exact" }

func (v ExactMatch) Check(sub Submission) Verdict {
	return Verdict{Correct: Normalize(sub.Text()) == v.Answer}
}

// layoutGlyphs are stripped from a tile layout before fragment matching.
var layoutGlyphs = strings.NewReplacer("|", "", "→", "", "↓", "")

// Containment accepts a tile layout when every fragment occurs somewhere in
// the concatenation of its tiles. Tile positions and fragment order are not
// checked. Matching is case-sensitive.
type Containment struct {
	Fragments []string
	Slots     int
}

func (v Containment) Name() string { return "containment" }

func (v Containment) Check(sub Submission) Verdict {
	tiles := sub.Tiles()
	if v.Slots > 0 && len(tiles) > v.Slots {
		return Verdict{}
	}
	joined := layoutGlyphs.Replace(strings.Join(tiles, ""))
	for _, f := range v.Fragments {
		if !strings.Contains(joined, f) {
			return Verdict{}
		}
	}
	return Verdict{Correct: true}
}

// Shape constrains the form of a text answer.
type Shape struct {
	Length int
	First  byte
	Last   byte
	// Vowels is the number of distinct vowel letters the word uses.
	Vowels int
}

const vowels = "AEIOU"

// violation describes the first constraint word breaks, or returns "".
func (s Shape) violation(word string) string {
	if len(word) != s.Length || len(word) == 0 {
		return fmt.Sprintf("length %d, want %d", len(word), s.Length)
	}
	if word[0] != s.First {
		return fmt.Sprintf("starts with %q, want %q", word[0], s.First)
	}
	if word[len(word)-1] != s.Last {
		return fmt.Sprintf("ends with %q, want %q", word[len(word)-1], s.Last)
	}
	n := 0
	for i := 0; i < len(vowels); i++ {
		if strings.IndexByte(word, vowels[i]) >= 0 {
			n++
		}
	}
	if n != s.Vowels {
		return fmt.Sprintf("%d distinct vowels, want %d", n, s.Vowels)
	}
	return ""
}

// Compound requires an exact match with Answer and, independently, that the
// submission satisfies Shape. A right word in the wrong shape fails with
// ShapeFailure instead of the gate's default line.
type Compound struct {
	Answer       string
	Shape        Shape
	ShapeFailure string
}

func (v Compound) Name() string { return "compound" }

func (v Compound) Check(sub Submission) Verdict {
	word := Normalize(sub.Text())
	exact := word == v.Answer
	shaped := v.Shape.violation(word) == ""
	switch {
	case exact && shaped:
		return Verdict{Correct: true}
	case exact:
		return Verdict{Failure: v.ShapeFailure}
	default:
		return Verdict{}
	}
}
