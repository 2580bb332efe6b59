package gates

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"let", "LET"},
		{"  Let \n", "LET"},
		{"", ""},
		{"patience", "PATIENCE"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultRegistryShape(t *testing.T) {
	r := Default()
	if r.Len() != 9 {
		t.Fatalf("expected 9 gates, got %d", r.Len())
	}
	names := map[int]string{5: "containment", 9: "compound"}
	for _, d := range r.All() {
		want := names[d.ID]
		if want == "" {
			want = "exact"
		}
		if d.Validator.Name() != want {
			t.Errorf("gate %d: validator %q, want %q", d.ID, d.Validator.Name(), want)
		}
		if d.Title == "" || d.Prompt == "" || d.Success == "" || d.Failure == "" {
			t.Errorf("gate %d: missing display data", d.ID)
		}
	}
	if _, err := r.Get(0); err == nil {
		t.Error("expected error for gate 0")
	}
	if _, err := r.Get(10); err == nil {
		t.Error("expected error for gate 10")
	}
}

func TestExactGates(t *testing.T) {
	r := Default()
	answers := map[int]string{1: "LET", 2: "US", 3: "JUDGE", 4: "KEBAB", 6: "WHERE", 7: "FIRE", 8: "LEARNED"}
	for id, answer := range answers {
		d, err := r.Get(id)
		if err != nil {
			t.Fatalf("get gate %d: %v", id, err)
		}
		for _, in := range []string{answer, "  " + answer + " ", toLower(answer)} {
			if ok, msg := d.Check(Text(in)); !ok || msg != d.Success {
				t.Errorf("gate %d: %q rejected (%q)", id, in, msg)
			}
		}
		for _, in := range []string{"", answer + "S", "NOPE", answer[:len(answer)-1]} {
			if ok, msg := d.Check(Text(in)); ok || msg != d.Failure {
				t.Errorf("gate %d: %q accepted (%q)", id, in, msg)
			}
		}
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func TestFinalGateCompound(t *testing.T) {
	d, err := Default().Get(9)
	if err != nil {
		t.Fatal(err)
	}

	if ok, msg := d.Check(Text("patience")); !ok || msg != "Complete." {
		t.Fatalf("PATIENCE rejected: %q", msg)
	}

	// Same letters, each arrangement breaking at least one constraint.
	for _, in := range []string{
		"EATIENCP", // first and last letter
		"PATIENEC", // last letter
		"APTIENCE", // first letter
		"PATIENCEE",
		"PATINCE",
	} {
		if ok, _ := d.Check(Text(in)); ok {
			t.Errorf("%q accepted", in)
		}
	}
}

func TestShapeViolation(t *testing.T) {
	s := Shape{Length: 8, First: 'P', Last: 'E', Vowels: 3}
	tests := []struct {
		word string
		ok   bool
	}{
		{"PATIENCE", true},
		{"PURSUANE", true}, // U, A, E
		{"PATIENC", false},
		{"XATIENCE", false},
		{"PATIENCX", false},
		{"PBTTNNCE", false}, // one distinct vowel
		{"PAOIUNCE", false}, // five distinct vowels
		{"", false},
	}
	for _, tt := range tests {
		got := s.violation(tt.word) == ""
		if got != tt.ok {
			t.Errorf("violation(%q) ok=%v, want %v (%s)", tt.word, got, tt.ok, s.violation(tt.word))
		}
	}
}

func TestCompoundShapeFailureMessage(t *testing.T) {
	// A canonical answer that cannot meet its own shape surfaces the shape line.
	d := Definition{
		ID:      1,
		Success: "ok",
		Failure: "wrong word",
		Validator: Compound{
			Answer:       "PEACE",
			Shape:        Shape{Length: 8, First: 'P', Last: 'E', Vowels: 3},
			ShapeFailure: "wrong shape",
		},
	}
	if ok, msg := d.Check(Text("peace")); ok || msg != "wrong shape" {
		t.Errorf("got ok=%v msg=%q, want shape failure", ok, msg)
	}
	if ok, msg := d.Check(Text("piece")); ok || msg != "wrong word" {
		t.Errorf("got ok=%v msg=%q, want word failure", ok, msg)
	}
}

func TestJigsawContainment(t *testing.T) {
	d, err := Default().Get(5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		layout []string
		ok     bool
	}{
		{
			name:   "intended arrangement",
			layout: []string{"FI|RE", "→ RE|SU", "LT", "↓", "RE|PE", "TI|TI", "CUL|T", "URE", "ON"},
			ok:     true,
		},
		{
			name:   "offered order",
			layout: JigsawTiles(),
			ok:     true,
		},
		{
			name:   "fragments out of intended order",
			layout: []string{"ON", "URE", "CUL|T", "LT", "TI|TI", "RE|PE", "FI|RE", "", "→ RE|SU"},
			ok:     true,
		},
		{
			name:   "lower case tiles",
			layout: []string{"fi|re", "re|pe", "ti|ti", "on", "cul|t", "ure", "→ re|su", "lt", ""},
			ok:     false,
		},
		{
			name:   "missing RESU",
			layout: []string{"FI|RE", "RE|PE", "TI|TI", "ON", "CUL|T", "URE", "", "LT", "↓"},
			ok:     false,
		},
		{
			name:   "all empty",
			layout: make([]string, 9),
			ok:     false,
		},
		{
			name:   "too many slots",
			layout: append(append([]string{}, JigsawTiles()...), "FIRE"),
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := d.Check(Layout(tt.layout...))
			if ok != tt.ok {
				t.Errorf("got %v (%q), want %v", ok, msg, tt.ok)
			}
		})
	}
}

func TestJigsawAcceptsTypedTiles(t *testing.T) {
	d, _ := Default().Get(5)
	ok, _ := d.Check(Text("FI|RE RE|PE TI|TI ON CUL|T URE →RE|SU LT ↓"))
	if !ok {
		t.Error("typed tiles rejected")
	}
}

func TestSubmissionRecorded(t *testing.T) {
	if got := Text("  let ").Recorded(); got != "LET" {
		t.Errorf("Recorded = %q, want LET", got)
	}
	got := Layout("FI|RE", "", "LT").Recorded()
	want := `["FI|RE" "" "LT"]`
	if got != want {
		t.Errorf("Recorded = %q, want %q", got, want)
	}
}

func TestNewRegistryRejectsBadTables(t *testing.T) {
	good := Definition{ID: 1, Answer: "A", Validator: ExactMatch{Answer: "A"}}
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty", nil},
		{"gap", []Definition{good, {ID: 3, Validator: ExactMatch{}}}},
		{"no validator", []Definition{{ID: 1, Answer: "A"}}},
		{"lower-case answer", []Definition{{ID: 1, Answer: "a", Validator: ExactMatch{Answer: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestAnswerKey(t *testing.T) {
	key := Default().AnswerKey()
	if len(key) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(key))
	}
	if key[1] != "LET" || key[9] != "PATIENCE" {
		t.Errorf("unexpected key: %v", key)
	}
	if key[5] == "" {
		t.Error("gate 5 should describe its fragments")
	}
}

func TestRegistryDoesNotShareSlices(t *testing.T) {
	r := Default()

	d, _ := r.Get(5)
	d.Tiles[0] = "XX"
	d.Validator.(Containment).Fragments[0] = "XX"
	r.All()[4].Tiles[1] = "XX"
	JigsawTiles()[2] = "XX"

	fresh, _ := r.Get(5)
	want := []string{"FI|RE", "RE|PE", "TI|TI"}
	for i, w := range want {
		if fresh.Tiles[i] != w {
			t.Errorf("Tiles[%d] = %q, want %q", i, fresh.Tiles[i], w)
		}
	}
	if got := fresh.Validator.(Containment).Fragments[0]; got != "FIRE" {
		t.Errorf("Fragments[0] = %q, want FIRE", got)
	}
	if ok, _ := fresh.Check(Layout(JigsawTiles()...)); !ok {
		t.Error("offered tiles no longer solve gate V")
	}
}
