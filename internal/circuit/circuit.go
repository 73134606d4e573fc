// Package circuit holds the append-only circuit model: a fixed-size qubit
// register and the ordered list of operations applied to it.
//
// Execution order is insertion order. Each operation also carries a step
// number, a per-qubit column used only to lay the circuit out for display.
package circuit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"qtermsim/internal/gate"
)

// MaxQubits bounds the register size of any circuit this package builds or
// parses. The statevector engine uses the same limit.
const MaxQubits = 28

var (
	// ErrIndexOutOfRange is returned when a qubit or classical bit index falls
	// outside the register.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrArityMismatch is returned when a gate is appended with the wrong
	// number of qubits.
	ErrArityMismatch = errors.New("gate arity mismatch")

	// ErrDuplicateQubit is returned when a two-qubit gate names the same qubit twice.
	ErrDuplicateQubit = errors.New("control and target must differ")
)

// Operation is a gate bound to qubits. The last qubit is the target and any
// earlier ones are controls.
type Operation struct {
	Gate   gate.Gate
	Qubits []int
	Step   int // display column, never used for scheduling
	Cbit   int // classical bit for measurements, -1 otherwise
}

// Target returns the target qubit.
func (op Operation) Target() int { return op.Qubits[len(op.Qubits)-1] }

// Controls returns the control qubits, if any.
func (op Operation) Controls() []int { return op.Qubits[:len(op.Qubits)-1] }

// IsMeasurement reports whether op is a measurement marker.
func (op Operation) IsMeasurement() bool { return op.Gate.Kind == gate.KindMeasure }

func (op Operation) clone() Operation {
	op.Qubits = slices.Clone(op.Qubits)
	return op
}

// References reports whether op touches the given qubit.
func (op Operation) References(qubit int) bool {
	for _, q := range op.Qubits {
		if q == qubit {
			return true
		}
	}
	return false
}

func (op Operation) String() string {
	switch {
	case op.IsMeasurement():
		return fmt.Sprintf("%s q[%d] -> c[%d] (step %d)", op.Gate.Symbol(), op.Target(), op.Cbit, op.Step)
	case len(op.Qubits) > 1:
		return fmt.Sprintf("%s on qubit %d by %d (step %d)", op.Gate, op.Target(), op.Qubits[0], op.Step)
	default:
		return fmt.Sprintf("%s on qubit %d (step %d)", op.Gate, op.Target(), op.Step)
	}
}

// layout tracks the next free display column on every qubit.
type layout struct {
	next []int
}

func newLayout(numQubits int) layout {
	return layout{next: make([]int, numQubits)}
}

// place reserves a column shared by all the given qubits and returns it.
func (l *layout) place(qubits ...int) int {
	step := 0
	for _, q := range qubits {
		step = max(step, l.next[q])
	}
	for _, q := range qubits {
		l.next[q] = step + 1
	}
	return step
}

func (l *layout) depth() int {
	d := 0
	for _, n := range l.next {
		d = max(d, n)
	}
	return d
}

// Circuit is a quantum circuit over a fixed number of qubits. It is not safe
// for concurrent mutation; once built it may be executed from any goroutine.
type Circuit struct {
	numQubits int
	numClbits int
	ops       []Operation
	layout    layout
}

// New returns an empty circuit over numQubits qubits. Negative counts are
// treated as zero.
func New(numQubits int) *Circuit {
	numQubits = max(numQubits, 0)
	return &Circuit{
		numQubits: numQubits,
		layout:    newLayout(numQubits),
	}
}

// NumQubits returns the register size.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumOperations returns how many operations have been appended.
func (c *Circuit) NumOperations() int { return len(c.ops) }

// NumClbits returns the size of the classical register, grown by Measure.
func (c *Circuit) NumClbits() int { return c.numClbits }

// Depth returns the number of display columns in use.
func (c *Circuit) Depth() int { return c.layout.depth() }

// Operations returns a copy of the operation list in execution order.
func (c *Circuit) Operations() []Operation {
	ops := make([]Operation, len(c.ops))
	for i, op := range c.ops {
		ops[i] = op.clone()
	}
	return ops
}

// Operation returns a copy of the i-th operation.
func (c *Circuit) Operation(i int) Operation { return c.ops[i].clone() }

func (c *Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.numQubits {
		return fmt.Errorf("%w: qubit %d in a %d-qubit circuit", ErrIndexOutOfRange, q, c.numQubits)
	}
	return nil
}

func (c *Circuit) push(g gate.Gate, cbit int, qubits ...int) {
	step := c.layout.place(qubits...)
	c.ops = append(c.ops, Operation{
		Gate:   g,
		Qubits: qubits,
		Step:   step,
		Cbit:   cbit,
	})
}

// Append adds a single-qubit gate acting on target.
func (c *Circuit) Append(g gate.Gate, target int) error {
	if g.Kind == gate.KindMeasure {
		return c.Measure(target, target)
	}
	if err := c.checkQubit(target); err != nil {
		return err
	}
	if g.Arity() != 1 {
		return fmt.Errorf("%w: %s needs %d qubits, got 1", ErrArityMismatch, g.Name(), g.Arity())
	}
	c.push(g, -1, target)
	return nil
}

// AddGate is an alias of Append.
func (c *Circuit) AddGate(g gate.Gate, qubit int) error {
	return c.Append(g, qubit)
}

// AppendControlled adds a two-qubit gate with the given control and target.
func (c *Circuit) AppendControlled(g gate.Gate, control, target int) error {
	if err := c.checkQubit(control); err != nil {
		return err
	}
	if err := c.checkQubit(target); err != nil {
		return err
	}
	if g.Arity() != 2 {
		return fmt.Errorf("%w: %s needs %d qubit, got 2", ErrArityMismatch, g.Name(), g.Arity())
	}
	if control == target {
		return fmt.Errorf("%w: qubit %d", ErrDuplicateQubit, control)
	}
	c.push(g, -1, control, target)
	return nil
}

// Measure records a measurement of qubit into classical bit cbit. The
// classical register grows as needed. Measurements do not collapse the state
// during execution.
func (c *Circuit) Measure(qubit, cbit int) error {
	if err := c.checkQubit(qubit); err != nil {
		return err
	}
	if cbit < 0 {
		return fmt.Errorf("%w: classical bit %d", ErrIndexOutOfRange, cbit)
	}
	c.numClbits = max(c.numClbits, cbit+1)
	c.push(gate.Measure(), cbit, qubit)
	return nil
}

// AppendOperation re-appends an operation taken from another circuit. The
// step is recomputed for this circuit.
func (c *Circuit) AppendOperation(op Operation) error {
	switch {
	case op.IsMeasurement():
		return c.Measure(op.Target(), op.Cbit)
	case len(op.Qubits) == 2:
		return c.AppendControlled(op.Gate, op.Qubits[0], op.Qubits[1])
	case len(op.Qubits) == 1:
		return c.Append(op.Gate, op.Qubits[0])
	default:
		return fmt.Errorf("%w: operation on %d qubits", ErrArityMismatch, len(op.Qubits))
	}
}

func (c *Circuit) H(q int) error { return c.Append(gate.H(), q) }
func (c *Circuit) X(q int) error { return c.Append(gate.X(), q) }
func (c *Circuit) Y(q int) error { return c.Append(gate.Y(), q) }
func (c *Circuit) Z(q int) error { return c.Append(gate.Z(), q) }
func (c *Circuit) S(q int) error { return c.Append(gate.S(), q) }
func (c *Circuit) T(q int) error { return c.Append(gate.T(), q) }

func (c *Circuit) RX(q int, theta float64) error { return c.Append(gate.RX(theta), q) }
func (c *Circuit) RY(q int, theta float64) error { return c.Append(gate.RY(theta), q) }
func (c *Circuit) RZ(q int, theta float64) error { return c.Append(gate.RZ(theta), q) }

// CNOT flips target when control is set.
func (c *Circuit) CNOT(control, target int) error {
	return c.AppendControlled(gate.CNOT(), control, target)
}

// CX is an alias of CNOT.
func (c *Circuit) CX(control, target int) error { return c.CNOT(control, target) }

func (c *Circuit) CZ(control, target int) error {
	return c.AppendControlled(gate.CZ(), control, target)
}

func (c *Circuit) SWAP(a, b int) error {
	return c.AppendControlled(gate.SWAP(), a, b)
}

// HasCustomGates reports whether any operation uses a caller supplied matrix.
func (c *Circuit) HasCustomGates() bool {
	for _, op := range c.ops {
		if op.Gate.Kind == gate.KindCustom {
			return true
		}
	}
	return false
}

// OpsAtStep returns the operations laid out in the given display column.
func (c *Circuit) OpsAtStep(step int) []Operation {
	var ops []Operation
	for _, op := range c.ops {
		if op.Step == step {
			ops = append(ops, op)
		}
	}
	return ops
}

func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quantum Circuit (%d qubits, %d operations):\n", c.numQubits, len(c.ops))
	for i, op := range c.ops {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, op)
	}
	return sb.String()
}
