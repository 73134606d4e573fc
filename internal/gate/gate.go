// Package gate defines the quantum gates the simulator understands and the
// unitary matrix each one applies.
package gate

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrDimensionMismatch is returned when matrix or vector shapes do not line up.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMalformedGate is returned for a custom gate whose matrix is not a
	// square 2x2 or 4x4 matrix.
	ErrMalformedGate = errors.New("malformed custom gate")
)

// Kind identifies a gate variant.
type Kind int

const (
	KindX Kind = iota
	KindY
	KindZ
	KindH
	KindS
	KindT
	KindRX
	KindRY
	KindRZ
	KindCNOT
	KindCZ
	KindSWAP
	KindMeasure
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindX:
		return "X"
	case KindY:
		return "Y"
	case KindZ:
		return "Z"
	case KindH:
		return "H"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindRX:
		return "RX"
	case KindRY:
		return "RY"
	case KindRZ:
		return "RZ"
	case KindCNOT:
		return "CNOT"
	case KindCZ:
		return "CZ"
	case KindSWAP:
		return "SWAP"
	case KindMeasure:
		return "MEASURE"
	case KindCustom:
		return "CUSTOM"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate is an immutable gate value. Rotation gates carry their angle in Theta;
// custom gates carry their own matrix, name and symbol.
type Gate struct {
	Kind  Kind
	Theta float64

	custom Matrix
	name   string
	symbol string
}

func X() Gate       { return Gate{Kind: KindX} }
func Y() Gate       { return Gate{Kind: KindY} }
func Z() Gate       { return Gate{Kind: KindZ} }
func H() Gate       { return Gate{Kind: KindH} }
func S() Gate       { return Gate{Kind: KindS} }
func T() Gate       { return Gate{Kind: KindT} }
func CNOT() Gate    { return Gate{Kind: KindCNOT} }
func CZ() Gate      { return Gate{Kind: KindCZ} }
func SWAP() Gate    { return Gate{Kind: KindSWAP} }
func Measure() Gate { return Gate{Kind: KindMeasure} }

// RX returns a rotation about the X axis by theta radians.
func RX(theta float64) Gate { return Gate{Kind: KindRX, Theta: theta} }

// RY returns a rotation about the Y axis by theta radians.
func RY(theta float64) Gate { return Gate{Kind: KindRY, Theta: theta} }

// RZ returns a rotation about the Z axis by theta radians.
func RZ(theta float64) Gate { return Gate{Kind: KindRZ, Theta: theta} }

// Custom wraps a caller supplied matrix. The matrix is not checked for
// unitarity; use Validate for a shape check and Matrix().IsUnitary for the rest.
//
// A 4x4 matrix is indexed by 2*controlBit + targetBit, where the control is
// the first qubit the gate is appended with and the target the second,
// whichever of the two has the lower register index. Row 2 is therefore
// |control=1, target=0⟩, the same layout as the CNOT matrix.
func Custom(m Matrix, name, symbol string) Gate {
	return Gate{Kind: KindCustom, custom: m, name: name, symbol: symbol}
}

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	matX = mustMatrix(2, 2,
		0, 1,
		1, 0)
	matY = mustMatrix(2, 2,
		0, -1i,
		1i, 0)
	matZ = mustMatrix(2, 2,
		1, 0,
		0, -1)
	matH = mustMatrix(2, 2,
		invSqrt2, invSqrt2,
		invSqrt2, -invSqrt2)
	matS = mustMatrix(2, 2,
		1, 0,
		0, 1i)
	matT = mustMatrix(2, 2,
		1, 0,
		0, cmplx.Exp(complex(0, math.Pi/4)))
	matCNOT = mustMatrix(4, 4,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0)
	matCZ = mustMatrix(4, 4,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1)
	matSWAP = mustMatrix(4, 4,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1)
)

// Matrix returns the gate's unitary. Measure has no operator and reports the
// 2x2 identity.
func (g Gate) Matrix() Matrix {
	switch g.Kind {
	case KindX:
		return matX
	case KindY:
		return matY
	case KindZ:
		return matZ
	case KindH:
		return matH
	case KindS:
		return matS
	case KindT:
		return matT
	case KindRX:
		c := complex(math.Cos(g.Theta/2), 0)
		js := complex(0, -math.Sin(g.Theta/2))
		return mustMatrix(2, 2,
			c, js,
			js, c)
	case KindRY:
		c := complex(math.Cos(g.Theta/2), 0)
		s := complex(math.Sin(g.Theta/2), 0)
		return mustMatrix(2, 2,
			c, -s,
			s, c)
	case KindRZ:
		return mustMatrix(2, 2,
			cmplx.Exp(complex(0, -g.Theta/2)), 0,
			0, cmplx.Exp(complex(0, g.Theta/2)))
	case KindCNOT:
		return matCNOT
	case KindCZ:
		return matCZ
	case KindSWAP:
		return matSWAP
	case KindCustom:
		return g.custom
	default:
		return Identity(2)
	}
}

// Arity returns the number of qubits the gate acts on.
func (g Gate) Arity() int {
	switch g.Kind {
	case KindCNOT, KindCZ, KindSWAP:
		return 2
	case KindCustom:
		if r, _ := g.custom.Dims(); r == 4 {
			return 2
		}
		return 1
	default:
		return 1
	}
}

// Validate checks that a custom gate's matrix has a shape the engine can apply.
// Fixed gates always validate.
func (g Gate) Validate() error {
	if g.Kind != KindCustom {
		return nil
	}
	r, c := g.custom.Dims()
	if r != c || (r != 2 && r != 4) {
		return fmt.Errorf("%w: %q has a %dx%d matrix", ErrMalformedGate, g.name, r, c)
	}
	return nil
}

// Name returns the long, human readable name of the gate.
func (g Gate) Name() string {
	switch g.Kind {
	case KindX:
		return "Pauli-X"
	case KindY:
		return "Pauli-Y"
	case KindZ:
		return "Pauli-Z"
	case KindH:
		return "Hadamard"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindRX:
		return "Rotate-X"
	case KindRY:
		return "Rotate-Y"
	case KindRZ:
		return "Rotate-Z"
	case KindCNOT:
		return "CNOT"
	case KindCZ:
		return "Controlled-Z"
	case KindSWAP:
		return "SWAP"
	case KindMeasure:
		return "Measure"
	case KindCustom:
		return g.name
	default:
		return g.Kind.String()
	}
}

// Symbol returns the short label used in circuit diagrams.
func (g Gate) Symbol() string {
	switch g.Kind {
	case KindCNOT:
		return "CX"
	case KindMeasure:
		return "M"
	case KindCustom:
		return g.symbol
	default:
		return g.Kind.String()
	}
}

// DisplaySymbol returns the symbol with its connecting wire, e.g. "─H─".
// CNOT targets draw as "─⊕─".
func (g Gate) DisplaySymbol() string {
	switch g.Kind {
	case KindCNOT:
		return "─⊕─"
	case KindCZ:
		return "─●─"
	case KindSWAP:
		return "─×─"
	default:
		return "─" + g.Symbol() + "─"
	}
}

// IsRotation reports whether the gate carries an angle.
func (g Gate) IsRotation() bool {
	return g.Kind == KindRX || g.Kind == KindRY || g.Kind == KindRZ
}

func (g Gate) String() string {
	if g.IsRotation() {
		return fmt.Sprintf("%s(%g)", g.Symbol(), g.Theta)
	}
	return g.Symbol()
}

// Entry describes a catalog gate for menus and help screens.
type Entry struct {
	Name     string
	Symbol   string
	Arity    int
	QASM     string
	HasAngle bool
}

// Catalog lists the built-in gates.
func Catalog() []Entry {
	gates := []struct {
		g    Gate
		qasm string
	}{
		{H(), "h"}, {X(), "x"}, {Y(), "y"}, {Z(), "z"}, {S(), "s"}, {T(), "t"},
		{RX(0), "rx"}, {RY(0), "ry"}, {RZ(0), "rz"},
		{CNOT(), "cx"}, {CZ(), "cz"}, {SWAP(), "swap"},
		{Measure(), "measure"},
	}
	entries := make([]Entry, 0, len(gates))
	for _, e := range gates {
		entries = append(entries, Entry{
			Name:     e.g.Name(),
			Symbol:   e.g.Symbol(),
			Arity:    e.g.Arity(),
			QASM:     e.qasm,
			HasAngle: e.g.IsRotation(),
		})
	}
	return entries
}

// FromQASM returns the catalog gate with the given lower-case QASM name. theta
// is used only by rotations.
func FromQASM(name string, theta float64) (Gate, bool) {
	switch name {
	case "h":
		return H(), true
	case "x":
		return X(), true
	case "y":
		return Y(), true
	case "z":
		return Z(), true
	case "s":
		return S(), true
	case "t":
		return T(), true
	case "rx":
		return RX(theta), true
	case "ry":
		return RY(theta), true
	case "rz":
		return RZ(theta), true
	case "cx", "cnot":
		return CNOT(), true
	case "cz":
		return CZ(), true
	case "swap":
		return SWAP(), true
	case "measure":
		return Measure(), true
	default:
		return Gate{}, false
	}
}
