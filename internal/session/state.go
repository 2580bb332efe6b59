package session

import (
	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/progress"
)

// Phase represents where the participant stands in the gate sequence.
type Phase int

const (
	PhaseGateActive       Phase = iota // Solving the current gate
	PhaseAwaitingApproval              // Gate solved, waiting on the host
	PhaseComplete                      // Final gate solved
)

func (p Phase) String() string {
	switch p {
	case PhaseGateActive:
		return "gate_active"
	case PhaseAwaitingApproval:
		return "awaiting_approval"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// PhaseOf derives the phase from a persisted record.
func PhaseOf(st *progress.State) Phase {
	switch {
	case st.GameComplete:
		return PhaseComplete
	case st.AwaitingHost:
		return PhaseAwaitingApproval
	default:
		return PhaseGateActive
	}
}

// Outcome is the result of a submission or approval.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeInvalidPIN Outcome = "invalid_pin"
)

// View is what a renderer needs to draw the current phase.
type View struct {
	Phase Phase

	// Gate is the active or awaiting gate. Zero once complete.
	Gate int

	// Definition is the gate's definition. Zero once complete.
	Definition gates.Definition

	CompletedGates []int

	// Attempts holds the records for Gate, oldest first.
	Attempts []progress.AttemptRecord
}

// Result is returned by Submit and Approve.
type Result struct {
	Outcome Outcome

	// Message is the feedback line for the participant or host.
	Message string

	View View
}
