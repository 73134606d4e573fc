package simulator

import (
	"sort"

	"qtermsim/internal/statevector"
)

// cumulative returns the running sum of basis-state probabilities.
func cumulative(probs []float64) []float64 {
	cum := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cum[i] = total
	}
	return cum
}

// draw picks a basis index with probability proportional to its weight.
// Zero-weight indices are never returned.
func draw(cum []float64, src Source) int {
	r := src.Float64() * cum[len(cum)-1]
	i := sort.Search(len(cum), func(i int) bool { return cum[i] > r })
	if i == len(cum) {
		// r landed on the total through rounding; take the last weighted index.
		i = len(cum) - 1
		for i > 0 && cum[i] == cum[i-1] {
			i--
		}
	}
	return i
}

// sample draws shots outcomes from state and tallies them by bitstring.
func sample(state *statevector.StateVector, shots int, src Source) (map[string]int, error) {
	counts := make(map[string]int)
	if shots == 0 {
		return counts, nil
	}

	cum := cumulative(state.Probabilities())
	if cum[len(cum)-1] <= 0 {
		return nil, ErrZeroProbability
	}

	// Tally by index first so each outcome is formatted once.
	hits := make(map[int]int)
	for range shots {
		hits[draw(cum, src)]++
	}
	for idx, n := range hits {
		counts[statevector.Bitstring(idx, state.NumQubits)] = n
	}
	return counts, nil
}
