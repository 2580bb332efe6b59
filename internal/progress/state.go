package progress

import (
	"errors"
	"fmt"
	"time"
)

const (
	// FirstGate is the gate a fresh session starts on.
	FirstGate = 1

	// LastGate is the final gate id.
	LastGate = 9

	// PastFinalGate is the current_gate value once the final gate is solved.
	PastFinalGate = LastGate + 1
)

// State is the durable record of one session.
type State struct {
	CurrentGate    int        `json:"current_gate"`
	CompletedGates []int      `json:"completed_gates"`
	Attempts       AttemptLog `json:"attempts"`
	AwaitingHost   bool       `json:"awaiting_host"`
	GameComplete   bool       `json:"game_complete"`
}

// AttemptRecord is a single submitted answer. Records are never modified
// after being appended.
type AttemptRecord struct {
	Submitted string    `json:"submitted"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns the initial state: gate 1 active, nothing solved, empty log.
func New() *State {
	return &State{
		CurrentGate:    FirstGate,
		CompletedGates: []int{},
		Attempts:       AttemptLog{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		CurrentGate:    s.CurrentGate,
		CompletedGates: append([]int{}, s.CompletedGates...),
		Attempts:       s.Attempts.clone(),
		AwaitingHost:   s.AwaitingHost,
		GameComplete:   s.GameComplete,
	}
	return out
}

// IsInitial reports whether s has the exact shape returned by New.
func (s *State) IsInitial() bool {
	return s.CurrentGate == FirstGate &&
		len(s.CompletedGates) == 0 &&
		len(s.Attempts) == 0 &&
		!s.AwaitingHost &&
		!s.GameComplete
}

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("progress invariant violated")

// Validate checks the structural invariants of the record.
//
// completed_gates must be exactly 1..k in order. awaiting_host means the gate
// at current_gate is the last one solved. game_complete means all gates are
// solved and current_gate is past the final gate.
func (s *State) Validate() error {
	if s.CurrentGate < FirstGate || s.CurrentGate > PastFinalGate {
		return fmt.Errorf("%w: current_gate %d out of range", ErrInvariant, s.CurrentGate)
	}
	for i, g := range s.CompletedGates {
		if g != i+1 {
			return fmt.Errorf("%w: completed_gates %v is not a prefix of 1..%d", ErrInvariant, s.CompletedGates, LastGate)
		}
	}
	if len(s.CompletedGates) > LastGate {
		return fmt.Errorf("%w: %d completed gates", ErrInvariant, len(s.CompletedGates))
	}

	solved := len(s.CompletedGates)
	switch {
	case s.GameComplete:
		if s.AwaitingHost {
			return fmt.Errorf("%w: game complete while awaiting host", ErrInvariant)
		}
		if s.CurrentGate != PastFinalGate || solved != LastGate {
			return fmt.Errorf("%w: game complete at gate %d with %d solved", ErrInvariant, s.CurrentGate, solved)
		}
	case s.AwaitingHost:
		if solved != s.CurrentGate {
			return fmt.Errorf("%w: awaiting host at gate %d with %d solved", ErrInvariant, s.CurrentGate, solved)
		}
	default:
		if s.CurrentGate > LastGate {
			return fmt.Errorf("%w: current_gate %d without completion", ErrInvariant, s.CurrentGate)
		}
		if solved != s.CurrentGate-1 {
			return fmt.Errorf("%w: gate %d active with %d solved", ErrInvariant, s.CurrentGate, solved)
		}
	}

	for gate := range s.Attempts {
		if gate < FirstGate || gate > LastGate {
			return fmt.Errorf("%w: attempts for unknown gate %d", ErrInvariant, gate)
		}
	}
	if correct := s.Attempts.Correct(); solved > correct {
		return fmt.Errorf("%w: %d gates solved but only %d correct attempts", ErrInvariant, solved, correct)
	}
	return nil
}
