package gates

import (
	"fmt"
	"strings"
)

// Kind names the puzzle style of a gate.
type Kind string

const (
	KindSelfReference          Kind = "self_reference"
	KindCoordination           Kind = "coordination"
	KindStoicSieve             Kind = "stoic_sieve"
	KindLinguisticInvariant    Kind = "linguistic_invariant"
	KindJigsaw                 Kind = "jigsaw"
	KindRelationalPlace        Kind = "relational_place"
	KindPerception             Kind = "perception"
	KindEpistemology           Kind = "epistemology"
	KindConstraintSatisfaction Kind = "constraint_satisfaction"
)

// Definition describes one gate. Definitions are immutable once registered.
type Definition struct {
	ID     int
	Title  string
	Kind   Kind
	Prompt string

	// Answer is the canonical uppercase answer. Empty for layout gates.
	Answer string

	// Tiles lists the tokens offered for a layout gate.
	Tiles []string

	Validator Validator

	// Success and Failure are the feedback lines shown after a submission.
	Success string
	Failure string
}

// TakesLayout reports whether the gate expects a tile layout.
func (d Definition) TakesLayout() bool {
	return len(d.Tiles) > 0
}

// Check runs the gate's validator and resolves the feedback line.
func (d Definition) Check(sub Submission) (correct bool, message string) {
	v := d.Validator.Check(sub)
	if v.Correct {
		return true, d.Success
	}
	if v.Failure != "" {
		return false, v.Failure
	}
	return false, d.Failure
}

// Key returns the canonical answer shown in the answer key.
func (d Definition) Key() string {
	if d.Answer != "" {
		return d.Answer
	}
	if c, ok := d.Validator.(Containment); ok {
		return "contains " + strings.Join(c.Fragments, ", ")
	}
	return ""
}

// ValidationError describes a malformed gate table.
type ValidationError struct {
	Gate    int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gate %d: %s", e.Gate, e.Message)
}

// Registry is the immutable, ordered gate table.
type Registry struct {
	defs []Definition
}

// NewRegistry builds a registry from defs. Ids must run 1..len(defs) in order
// and every definition needs a validator.
func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, &ValidationError{Message: "no gates defined"}
	}
	out := make([]Definition, len(defs))
	for i, d := range defs {
		if d.ID != i+1 {
			return nil, &ValidationError{Gate: d.ID, Message: fmt.Sprintf("out of order at position %d", i+1)}
		}
		if d.Validator == nil {
			return nil, &ValidationError{Gate: d.ID, Message: "missing validator"}
		}
		if d.Answer != Normalize(d.Answer) {
			return nil, &ValidationError{Gate: d.ID, Message: fmt.Sprintf("answer %q is not normalized", d.Answer)}
		}
		out[i] = d.clone()
	}
	return &Registry{defs: out}, nil
}

// clone copies the slices a definition shares with its caller.
func (d Definition) clone() Definition {
	d.Tiles = append([]string(nil), d.Tiles...)
	if c, ok := d.Validator.(Containment); ok {
		c.Fragments = append([]string(nil), c.Fragments...)
		d.Validator = c
	}
	return d
}

// Len returns the number of gates.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Get returns the definition for id.
func (r *Registry) Get(id int) (Definition, error) {
	if id < 1 || id > len(r.defs) {
		return Definition{}, fmt.Errorf("gate %d: not found", id)
	}
	return r.defs[id-1].clone(), nil
}

// All returns every definition in gate order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.clone()
	}
	return out
}

// AnswerKey maps each gate id to its canonical answer.
func (r *Registry) AnswerKey() map[int]string {
	key := make(map[int]string, len(r.defs))
	for _, d := range r.defs {
		key[d.ID] = d.Key()
	}
	return key
}
