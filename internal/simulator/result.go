package simulator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Result is the outcome of one Run.
type Result struct {
	ID         uuid.UUID
	Name       string
	NumQubits  int
	Shots      int
	FinalState []complex128
	Counts     map[string]int // bitstring, highest qubit first -> hits
}

// SortedKeys returns the observed bitstrings in ascending order.
func (r *Result) SortedKeys() []string {
	keys := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Probability returns the observed frequency of key.
func (r *Result) Probability(key string) float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Counts[key]) / float64(r.Shots)
}

// MostFrequent returns the bitstring with the highest count. Ties go to the
// smaller bitstring.
func (r *Result) MostFrequent() (string, int) {
	best, bestN := "", -1
	for _, k := range r.SortedKeys() {
		if n := r.Counts[k]; n > bestN {
			best, bestN = k, n
		}
	}
	return best, max(bestN, 0)
}

func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d shots on %d qubits\n", r.Name, r.Shots, r.NumQubits)
	for _, k := range r.SortedKeys() {
		fmt.Fprintf(&sb, "  |%s⟩  %6d  (%.3f)\n", k, r.Counts[k], r.Probability(k))
	}
	return sb.String()
}
