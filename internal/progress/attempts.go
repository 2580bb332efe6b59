package progress

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// gateKeyPrefix prefixes gate ids in the persisted attempts object.
const gateKeyPrefix = "gate_"

// AttemptLog holds every submission, per gate, in submission order.
// Entries are only ever appended.
type AttemptLog map[int][]AttemptRecord

// Append adds rec to the end of gate's sequence.
func (l AttemptLog) Append(gate int, rec AttemptRecord) {
	l[gate] = append(l[gate], rec)
}

// ForGate returns a copy of the records for gate.
func (l AttemptLog) ForGate(gate int) []AttemptRecord {
	return append([]AttemptRecord(nil), l[gate]...)
}

// Gates returns the gate ids that have at least one record, ascending.
func (l AttemptLog) Gates() []int {
	ids := make([]int, 0, len(l))
	for g, recs := range l {
		if len(recs) > 0 {
			ids = append(ids, g)
		}
	}
	sort.Ints(ids)
	return ids
}

// Total returns the number of records across all gates.
func (l AttemptLog) Total() int {
	n := 0
	for _, recs := range l {
		n += len(recs)
	}
	return n
}

// Correct returns the number of correct records across all gates.
func (l AttemptLog) Correct() int {
	n := 0
	for _, recs := range l {
		for _, r := range recs {
			if r.Correct {
				n++
			}
		}
	}
	return n
}

func (l AttemptLog) clone() AttemptLog {
	out := make(AttemptLog, len(l))
	for g, recs := range l {
		out[g] = append([]AttemptRecord(nil), recs...)
	}
	return out
}

// GateKey returns the persisted key for gate, e.g. "gate_3".
func GateKey(gate int) string {
	return gateKeyPrefix + strconv.Itoa(gate)
}

// ParseGateKey parses a persisted key produced by GateKey.
func ParseGateKey(key string) (int, error) {
	raw, ok := strings.CutPrefix(key, gateKeyPrefix)
	if !ok {
		return 0, fmt.Errorf("attempt key %q: missing %q prefix", key, gateKeyPrefix)
	}
	gate, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("attempt key %q: %w", key, err)
	}
	return gate, nil
}

func (l AttemptLog) MarshalJSON() ([]byte, error) {
	m := make(map[string][]AttemptRecord, len(l))
	for g, recs := range l {
		if recs == nil {
			recs = []AttemptRecord{}
		}
		m[GateKey(g)] = recs
	}
	return json.Marshal(m)
}

func (l *AttemptLog) UnmarshalJSON(data []byte) error {
	var m map[string][]AttemptRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(AttemptLog, len(m))
	for key, recs := range m {
		gate, err := ParseGateKey(key)
		if err != nil {
			return err
		}
		out[gate] = recs
	}
	*l = out
	return nil
}
