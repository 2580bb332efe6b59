package session

import "github.com/abhisek/initiation/internal/progress"

// Summary holds the data displayed by the status command and the admin
// console.
type Summary struct {
	Phase          Phase
	CurrentGate    int
	CompletedGates []int
	TotalAttempts  int
	TotalCorrect   int
	Accuracy       float64
	GateResults    []GateResult
}

// GateResult is the attempt tally for one gate.
type GateResult struct {
	Gate      int
	Attempted int
	Correct   int
}

// BuildSummary creates a Summary from a progress record.
func BuildSummary(st *progress.State) *Summary {
	var results []GateResult
	for _, gate := range st.Attempts.Gates() {
		r := GateResult{Gate: gate}
		for _, rec := range st.Attempts.ForGate(gate) {
			r.Attempted++
			if rec.Correct {
				r.Correct++
			}
		}
		results = append(results, r)
	}

	total := st.Attempts.Total()
	correct := st.Attempts.Correct()
	var accuracy float64
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	return &Summary{
		Phase:          PhaseOf(st),
		CurrentGate:    st.CurrentGate,
		CompletedGates: append([]int{}, st.CompletedGates...),
		TotalAttempts:  total,
		TotalCorrect:   correct,
		Accuracy:       accuracy,
		GateResults:    results,
	}
}
