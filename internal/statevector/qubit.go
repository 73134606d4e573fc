package statevector

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"qtermsim/internal/gate"
)

// ErrNotNormalized is returned for single-qubit states with |α|²+|β|² ≠ 1.
var ErrNotNormalized = errors.New("state is not normalized")

// Qubit is a single-qubit state α|0⟩ + β|1⟩.
type Qubit struct {
	alpha complex128
	beta  complex128
}

// NewQubit returns α|0⟩ + β|1⟩ after checking normalization.
func NewQubit(alpha, beta complex128) (Qubit, error) {
	norm := real(alpha*cmplx.Conj(alpha)) + real(beta*cmplx.Conj(beta))
	if math.Abs(norm-1) > 1e-10 {
		return Qubit{}, fmt.Errorf("%w: |α|²+|β|² = %g", ErrNotNormalized, norm)
	}
	return Qubit{alpha: alpha, beta: beta}, nil
}

// Zero returns |0⟩.
func Zero() Qubit { return Qubit{alpha: 1} }

// One returns |1⟩.
func One() Qubit { return Qubit{beta: 1} }

// Amplitudes returns α and β.
func (q Qubit) Amplitudes() (complex128, complex128) { return q.alpha, q.beta }

// Apply returns the state after a single-qubit gate. Two-qubit gates and
// malformed custom gates are rejected.
func (q Qubit) Apply(g gate.Gate) (Qubit, error) {
	if g.Kind == gate.KindMeasure {
		return q, nil
	}
	if err := g.Validate(); err != nil {
		return q, err
	}
	if g.Arity() != 1 {
		return q, fmt.Errorf("%w: %s acts on %d qubits", ErrDimensionMismatch, g.Name(), g.Arity())
	}
	v, err := g.Matrix().MulVec([]complex128{q.alpha, q.beta})
	if err != nil {
		return q, err
	}
	return Qubit{alpha: v[0], beta: v[1]}, nil
}

// ProbabilityZero returns the probability of measuring 0.
func (q Qubit) ProbabilityZero() float64 { return real(q.alpha * cmplx.Conj(q.alpha)) }

// ProbabilityOne returns the probability of measuring 1.
func (q Qubit) ProbabilityOne() float64 { return real(q.beta * cmplx.Conj(q.beta)) }

func (q Qubit) String() string {
	return fmt.Sprintf("%v|0⟩ + %v|1⟩", q.alpha, q.beta)
}
