package session

import (
	"testing"
	"time"

	"github.com/abhisek/initiation/internal/progress"
)

func TestBuildSummary(t *testing.T) {
	st := progress.New()
	ts := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	st.Attempts.Append(1, progress.AttemptRecord{Submitted: "ALLOW", Timestamp: ts})
	st.Attempts.Append(1, progress.AttemptRecord{Submitted: "LET", Correct: true, Timestamp: ts})
	st.Attempts.Append(2, progress.AttemptRecord{Submitted: "US", Correct: true, Timestamp: ts})
	st.CompletedGates = []int{1, 2}
	st.CurrentGate = 2
	st.AwaitingHost = true

	s := BuildSummary(st)

	if s.Phase != PhaseAwaitingApproval {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseAwaitingApproval)
	}
	if s.TotalAttempts != 3 || s.TotalCorrect != 2 {
		t.Errorf("totals = %d/%d, want 2/3", s.TotalCorrect, s.TotalAttempts)
	}
	if s.Accuracy < 0.66 || s.Accuracy > 0.67 {
		t.Errorf("Accuracy = %f", s.Accuracy)
	}
	if len(s.GateResults) != 2 {
		t.Fatalf("GateResults = %+v", s.GateResults)
	}
	if s.GateResults[0] != (GateResult{Gate: 1, Attempted: 2, Correct: 1}) {
		t.Errorf("gate 1 result = %+v", s.GateResults[0])
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(progress.New())
	if s.Accuracy != 0 || s.TotalAttempts != 0 || len(s.GateResults) != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Phase.String() != "gate_active" {
		t.Errorf("Phase = %s", s.Phase)
	}
}
