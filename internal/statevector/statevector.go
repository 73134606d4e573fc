// Package statevector executes circuits against a dense vector of 2^n complex
// amplitudes. Bit k of a basis index is the state of qubit k.
package statevector

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"qtermsim/internal/circuit"
	"qtermsim/internal/gate"
)

// MaxQubits bounds the register size the engine will allocate.
const MaxQubits = circuit.MaxQubits

var (
	// ErrDimensionMismatch is returned when an explicit qubit register does not
	// match the circuit size.
	ErrDimensionMismatch = gate.ErrDimensionMismatch

	// ErrTooManyQubits is returned for circuits larger than MaxQubits.
	ErrTooManyQubits = errors.New("too many qubits")

	// ErrMalformedGate is returned when a custom gate matrix cannot be applied.
	ErrMalformedGate = gate.ErrMalformedGate
)

// StateVector is the amplitude vector of an n-qubit register.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// New returns the all-zero basis state |0…0⟩. Negative counts are treated
// as zero.
func New(numQubits int) *StateVector {
	numQubits = max(numQubits, 0)
	n := 1 << numQubits
	amps := make([]complex128, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Execute runs c from |0…0⟩ and returns the cleaned-up final state.
func Execute(c *circuit.Circuit) (*StateVector, error) {
	if c.NumQubits() > MaxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.NumQubits(), MaxQubits)
	}
	s := New(c.NumQubits())
	if err := s.Evolve(c); err != nil {
		return nil, err
	}
	s.Cleanup()
	return s, nil
}

// ExecuteFrom runs c starting from the product state of the given qubits,
// where qubits[k] is the state of qubit k.
func ExecuteFrom(c *circuit.Circuit, qubits []Qubit) (*StateVector, error) {
	if len(qubits) != c.NumQubits() {
		return nil, fmt.Errorf("%w: %d qubits supplied for a %d-qubit circuit", ErrDimensionMismatch, len(qubits), c.NumQubits())
	}
	if c.NumQubits() > MaxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.NumQubits(), MaxQubits)
	}
	s := ProductState(qubits)
	if err := s.Evolve(c); err != nil {
		return nil, err
	}
	s.Cleanup()
	return s, nil
}

// ProductState builds the tensor product of single-qubit states.
func ProductState(qubits []Qubit) *StateVector {
	n := len(qubits)
	amps := make([]complex128, 1<<n)
	for i := range amps {
		amp := complex128(1)
		for k, q := range qubits {
			if i&(1<<k) != 0 {
				amp *= q.beta
			} else {
				amp *= q.alpha
			}
		}
		amps[i] = amp
	}
	return &StateVector{Amplitudes: amps, NumQubits: n}
}

// Evolve applies every operation of c in insertion order without cleanup.
func (s *StateVector) Evolve(c *circuit.Circuit) error {
	if c.NumQubits() != s.NumQubits {
		return fmt.Errorf("%w: %d-qubit state for a %d-qubit circuit", ErrDimensionMismatch, s.NumQubits, c.NumQubits())
	}
	for i := range c.NumOperations() {
		if err := s.Apply(c.Operation(i)); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, c.Operation(i).Gate.Name(), err)
		}
	}
	return nil
}

// Apply applies a single operation in place.
func (s *StateVector) Apply(op circuit.Operation) error {
	g := op.Gate
	if g.Kind == gate.KindMeasure {
		// No mid-circuit collapse: measurements are sampled from the final state.
		return nil
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if len(op.Qubits) != g.Arity() {
		return fmt.Errorf("%w: %s bound to %d qubits", ErrMalformedGate, g.Name(), len(op.Qubits))
	}
	for _, q := range op.Qubits {
		if q < 0 || q >= s.NumQubits {
			return fmt.Errorf("%w: qubit %d", circuit.ErrIndexOutOfRange, q)
		}
	}

	switch {
	case g.Arity() == 1:
		s.applySingle(g.Matrix(), op.Target())
	case g.Kind == gate.KindCNOT:
		s.applyCNOT(op.Qubits[0], op.Target())
	default:
		s.applyTwo(g.Matrix(), op.Qubits[0], op.Target())
	}
	return nil
}

// applySingle multiplies every (|…0…⟩, |…1…⟩) amplitude pair on qubit q by m.
func (s *StateVector) applySingle(m gate.Matrix, q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	m00, m01 := m.At(0, 0), m.At(0, 1)
	m10, m11 := m.At(1, 0), m.At(1, 1)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m00*a0 + m01*a1
			s.Amplitudes[j] = m10*a0 + m11*a1
		}
	}
}

// applyCNOT swaps each amplitude pair differing only in the target bit, for
// indices whose control bit is set. Every pair is visited once.
func (s *StateVector) applyCNOT(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyTwo applies a 4x4 matrix to qubits (control, target). Within each group
// of four amplitudes the local index is 2*controlBit + targetBit, which matches
// the CNOT matrix convention.
func (s *StateVector) applyTwo(m gate.Matrix, control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	visited := make([]bool, n)

	var idx [4]int
	var in, out [4]complex128
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		base := i &^ (cBit | tBit)
		idx[0] = base
		idx[1] = base | tBit
		idx[2] = base | cBit
		idx[3] = base | cBit | tBit

		for k, x := range idx {
			in[k] = s.Amplitudes[x]
			visited[x] = true
		}
		for r := range 4 {
			var sum complex128
			for c := range 4 {
				sum += m.At(r, c) * in[c]
			}
			out[r] = sum
		}
		for k, x := range idx {
			s.Amplitudes[x] = out[k]
		}
	}
}

// Cleanup snaps each real and imaginary part to a nearby canonical value or
// rounds it to 8 decimal places.
func (s *StateVector) Cleanup() {
	for i, a := range s.Amplitudes {
		s.Amplitudes[i] = complex(RoundIfClose(real(a), cleanupTolerance), RoundIfClose(imag(a), cleanupTolerance))
	}
}

const cleanupTolerance = 1e-10

var canonicalValues = [...]float64{0, 0.5, -0.5, 1, -1}

// RoundIfClose returns the canonical value within tol of v, if any, and
// otherwise v rounded to 8 decimal places.
func RoundIfClose(v, tol float64) float64 {
	for _, c := range canonicalValues {
		if math.Abs(v-c) < tol {
			return c
		}
	}
	return math.Round(v*1e8) / 1e8
}

// Probabilities returns |amplitude|² for every basis index.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Norm returns the sum of squared magnitudes.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, p := range s.Probabilities() {
		total += p
	}
	return total
}

// QubitProbability holds the marginal outcome probabilities of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns per-qubit marginals.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, p := range s.Probabilities() {
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// BasisState is a basis index with non-negligible amplitude.
type BasisState struct {
	Index     int
	Amplitude complex128
	Prob      float64
	Phase     float64
}

// BasisStates lists basis states whose probability exceeds 1e-10.
func (s *StateVector) BasisStates() []BasisState {
	states := make([]BasisState, 0, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		prob := real(amp * cmplx.Conj(amp))
		if prob > 1e-10 {
			states = append(states, BasisState{
				Index:     i,
				Amplitude: amp,
				Prob:      prob,
				Phase:     cmplx.Phase(amp),
			})
		}
	}
	return states
}

// Bitstring formats a basis index with the highest qubit first.
func Bitstring(index, numQubits int) string {
	if numQubits == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", numQubits, index)
}
