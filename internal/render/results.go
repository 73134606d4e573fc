package render

import (
	"fmt"
	"math"
	"strings"

	"qtermsim/internal/simulator"
	"qtermsim/internal/statevector"
)

// Histogram renders measurement counts as horizontal bars, one line per
// observed bitstring in ascending order.
func Histogram(res *simulator.Result, st Styles) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", st.Title.Render(fmt.Sprintf("Counts (%d shots)", res.Shots)))
	if len(res.Counts) == 0 {
		sb.WriteString(st.Dim.Render("no shots"))
		return sb.String()
	}
	for _, key := range res.SortedKeys() {
		p := res.Probability(key)
		n := int(math.Round(p * barWidth))
		bar := st.Bar.Render(strings.Repeat("█", n)) + st.Dim.Render(strings.Repeat("░", barWidth-n))
		fmt.Fprintf(&sb, "%s %s %6d  %5.1f%%\n",
			st.QubitLabel.Render("|"+key+"⟩"), bar, res.Counts[key], p*100)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// StateTable lists the non-negligible amplitudes of a state with their
// probabilities and phases.
func StateTable(state *statevector.StateVector, st Styles) string {
	var sb strings.Builder
	sb.WriteString(st.Title.Render("State vector") + "\n")
	for _, b := range state.BasisStates() {
		fmt.Fprintf(&sb, "%s  %s  p=%.4f  φ=%+.4f\n",
			st.QubitLabel.Render("|"+statevector.Bitstring(b.Index, state.NumQubits)+"⟩"),
			formatAmplitude(b.Amplitude), b.Prob, b.Phase)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// QubitTable lists the marginal probabilities of each qubit.
func QubitTable(state *statevector.StateVector, st Styles) string {
	var sb strings.Builder
	sb.WriteString(st.Title.Render("Qubits") + "\n")
	for q, p := range state.QubitProbabilities() {
		fmt.Fprintf(&sb, "%s  P(0)=%.4f  P(1)=%.4f\n",
			st.QubitLabel.Render(fmt.Sprintf("q[%d]", q)), p.Prob0, p.Prob1)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatAmplitude(a complex128) string {
	re, im := real(a), imag(a)
	switch {
	case im == 0:
		return fmt.Sprintf("%+.8f", re)
	case re == 0:
		return fmt.Sprintf("%+.8fi", im)
	default:
		return fmt.Sprintf("%+.8f%+.8fi", re, im)
	}
}
