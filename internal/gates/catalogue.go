package gates

var jigsawTiles = []string{
	"FI|RE", "RE|PE", "TI|TI",
	"ON", "CUL|T", "URE",
	"→ RE|SU", "LT", "↓",
}

// jigsawFragments must all appear in a gate V layout.
var jigsawFragments = []string{"FIRE", "CULT", "URE", "REPE", "TITI", "ON", "RESU", "LT"}

// JigsawTiles returns a copy of the tokens offered on gate V.
func JigsawTiles() []string {
	return append([]string(nil), jigsawTiles...)
}

// JigsawSlots is the size of the gate V grid.
const JigsawSlots = 9

// Default returns the registry of the nine gates.
func Default() *Registry {
	r, err := NewRegistry(definitions())
	if err != nil {
		panic("gates: invalid built-in table: " + err.Error())
	}
	return r
}

func definitions() []Definition {
	return []Definition{
		{
			ID:        1,
			Title:     "GATE I",
			Kind:      KindSelfReference,
			Answer:    "LET",
			Validator: ExactMatch{Answer: "LET"},
			Success:   "Necessary.",
			Failure:   "Not sufficient.",
			Prompt: `This gate opens when you speak the word that grants passage.

The word permits.
The word allows.
The word is the answer to its own constraint.

What single word grants permission to continue?`,
		},
		{
			ID:        2,
			Title:     "GATE II",
			Kind:      KindCoordination,
			Answer:    "US",
			Validator: ExactMatch{Answer: "US"},
			Success:   "Together.",
			Failure:   "Separated.",
			Prompt: `Two minds.
One answer.
No communication required.

You and the host exist in relation.
What word describes this relation?

Not "I".
Not "you".
What remains?`,
		},
		{
			ID:        3,
			Title:     "GATE III",
			Kind:      KindStoicSieve,
			Answer:    "JUDGE",
			Validator: ExactMatch{Answer: "JUDGE"},
			Success:   "Within.",
			Failure:   "External.",
			Prompt: `Consider what lies within your control:

- The weather tomorrow
- Your reputation among strangers
- The outcome of chance
- Your interpretation of events
- The actions of others
- Your physical appearance
- Your chosen response
- The passage of time
- Your evaluation of worth

Remove all that is external.
Remove all that fortune dictates.
Remove all that others determine.

What single action remains absolutely within your power?`,
		},
		{
			ID:        4,
			Title:     "GATE IV",
			Kind:      KindLinguisticInvariant,
			Answer:    "KEBAB",
			Validator: ExactMatch{Answer: "KEBAB"},
			Success:   "Universal.",
			Failure:   "Mutable.",
			Prompt: `Languages transform meaning across borders.

"Water" becomes "Wasser" becomes "eau" becomes "agua".
"Friend" becomes "Freund" becomes "ami" becomes "amigo".

Yet some words resist transformation.
Consider a word that names:
- Meat on a skewer
- Cooked over sustained heat
- Found from Berlin to Bangkok
- Spelled identically in a dozen tongues

What is this invariant word?`,
		},
		{
			ID:    5,
			Title: "GATE V",
			Kind:  KindJigsaw,
			Tiles: jigsawTiles,
			Validator: Containment{
				Fragments: jigsawFragments,
				Slots:     JigsawSlots,
			},
			Success: "Structure precedes location.",
			Failure: "Fragmented.",
			Prompt: `Nine fragments.
One structure.
No imagery.

Arrange the tiles to reveal coherent meaning.
The structure precedes the word.`,
		},
		{
			ID:        6,
			Title:     "GATE VI",
			Kind:      KindRelationalPlace,
			Answer:    "WHERE",
			Validator: ExactMatch{Answer: "WHERE"},
			Success:   "Located.",
			Failure:   "Displaced.",
			Prompt: `Location is not coordinates.
Place is not a point on a map.

Fire transforms through repetition.
Repetition creates culture.
Culture resides in place.

What single word asks for location without demanding latitude?`,
		},
		{
			ID:        7,
			Title:     "GATE VII",
			Kind:      KindPerception,
			Answer:    "FIRE",
			Validator: ExactMatch{Answer: "FIRE"},
			Success:   "Illuminated.",
			Failure:   "Obscured.",
			Prompt: `Look beyond the surface.
Some truths hide in plain sight.

  F ░ I ░ R ░ E ░ ░ ░ ░ ░ ░
  ░ L ░ A ░ M ░ E ░ ░ ░ ░ ░
  ░ ░ H ░ E ░ A ░ T ░ ░ ░ ░
  ░ ░ ░ B ░ U ░ R ░ N ░ ░ ░

Read the diagonal.
Not the noise.
What element appears?`,
		},
		{
			ID:        8,
			Title:     "GATE VIII",
			Kind:      KindEpistemology,
			Answer:    "LEARNED",
			Validator: ExactMatch{Answer: "LEARNED"},
			Success:   "Acquired.",
			Failure:   "Innate.",
			Prompt: `Knowledge comes in two forms:

KNOWN = possessed from the start, innate, given
?     = acquired through experience, earned through repetition

A child knows hunger.
A child _______ to walk.

What word means "acquired through repeated experience"?
Past tense. One word.`,
		},
		{
			ID:     9,
			Title:  "GATE IX",
			Kind:   KindConstraintSatisfaction,
			Answer: "PATIENCE",
			Validator: Compound{
				Answer:       "PATIENCE",
				Shape:        Shape{Length: 8, First: 'P', Last: 'E', Vowels: 3},
				ShapeFailure: "Incomplete.",
			},
			Success: "Complete.",
			Failure: "Too hasty.",
			Prompt: `CONSTRAINTS:

1. Eight letters.
2. Contains exactly three vowels.
3. First letter: P
4. Last letter: E
5. The word describes a quality required to solve this very puzzle.
6. It cannot be achieved through force.
7. It grows only through sustained practice.
8. Fire teaches it to meat.

What word satisfies all constraints?`,
		},
	}
}

// FinalReveal is shown once every gate is passed.
const FinalReveal = "Let us judge kebab\nwhere fire learned patience."
