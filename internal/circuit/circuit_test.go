package circuit

import (
	"errors"
	"strings"
	"testing"

	"qtermsim/internal/gate"
)

func TestNewCircuit(t *testing.T) {
	c := New(3)
	if c.NumQubits() != 3 {
		t.Errorf("NumQubits() = %d, want 3", c.NumQubits())
	}
	if c.NumOperations() != 0 {
		t.Errorf("NumOperations() = %d, want 0", c.NumOperations())
	}
	if got := New(-2).NumQubits(); got != 0 {
		t.Errorf("New(-2).NumQubits() = %d, want 0", got)
	}
}

func TestAppendOutOfRange(t *testing.T) {
	c := New(2)
	if err := c.H(0); err != nil {
		t.Fatalf("H(0): %v", err)
	}

	calls := map[string]func() error{
		"H(2)":          func() error { return c.H(2) },
		"X(-1)":         func() error { return c.X(-1) },
		"RX(5)":         func() error { return c.RX(5, 0.1) },
		"CNOT(0,2)":     func() error { return c.CNOT(0, 2) },
		"CNOT(2,0)":     func() error { return c.CNOT(2, 0) },
		"Measure(2,0)":  func() error { return c.Measure(2, 0) },
		"Measure(0,-1)": func() error { return c.Measure(0, -1) },
		"AddGate(T,7)":  func() error { return c.AddGate(gate.T(), 7) },
	}
	for name, call := range calls {
		err := call()
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: expected ErrIndexOutOfRange, got %v", name, err)
		}
		if c.NumOperations() != 1 {
			t.Errorf("%s: operation count changed to %d", name, c.NumOperations())
		}
	}
}

func TestIndexCheckedBeforeArity(t *testing.T) {
	c := New(2)
	if err := c.AddGate(gate.CNOT(), 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("AddGate(CNOT, 9): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := c.AppendControlled(gate.H(), 0, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("AppendControlled(H, 0, 9): expected ErrIndexOutOfRange, got %v", err)
	}
	if c.NumOperations() != 0 {
		t.Errorf("operation count changed to %d", c.NumOperations())
	}
}

func TestAppendArityChecks(t *testing.T) {
	c := New(2)
	if err := c.Append(gate.CNOT(), 0); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("Append(CNOT): expected ErrArityMismatch, got %v", err)
	}
	if err := c.AppendControlled(gate.H(), 0, 1); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("AppendControlled(H): expected ErrArityMismatch, got %v", err)
	}
	if err := c.CNOT(1, 1); !errors.Is(err, ErrDuplicateQubit) {
		t.Errorf("CNOT(1,1): expected ErrDuplicateQubit, got %v", err)
	}
	if c.NumOperations() != 0 {
		t.Errorf("expected no operations, got %d", c.NumOperations())
	}
}

func TestOperationQubits(t *testing.T) {
	c := New(3)
	_ = c.CNOT(2, 0)
	op := c.Operation(0)
	if op.Target() != 0 {
		t.Errorf("Target() = %d, want 0", op.Target())
	}
	if ctrl := op.Controls(); len(ctrl) != 1 || ctrl[0] != 2 {
		t.Errorf("Controls() = %v, want [2]", ctrl)
	}
	if op.Cbit != -1 {
		t.Errorf("Cbit = %d, want -1", op.Cbit)
	}
	if !op.References(2) || op.References(1) {
		t.Errorf("References mismatch for %v", op.Qubits)
	}
}

func TestStepAssignment(t *testing.T) {
	// h(0), cnot(0,1), x(2), x(1), h(0)
	c := New(3)
	_ = c.H(0)
	_ = c.CNOT(0, 1)
	_ = c.X(2)
	_ = c.X(1)
	_ = c.H(0)

	want := []int{0, 1, 0, 2, 2}
	for i, op := range c.Operations() {
		if op.Step != want[i] {
			t.Errorf("op %d (%s): step %d, want %d", i, op.Gate, op.Step, want[i])
		}
	}
	if c.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", c.Depth())
	}
}

func TestTwoQubitStepUsesMaxOfBoth(t *testing.T) {
	c := New(2)
	_ = c.H(0)
	_ = c.H(0)
	_ = c.H(0)
	_ = c.CNOT(1, 0) // qubit 0 is at column 3, qubit 1 at 0
	_ = c.X(1)

	ops := c.Operations()
	if ops[3].Step != 3 {
		t.Errorf("CNOT step = %d, want 3", ops[3].Step)
	}
	if ops[4].Step != 4 {
		t.Errorf("X after CNOT step = %d, want 4", ops[4].Step)
	}
}

func TestExecutionOrderIsInsertionOrder(t *testing.T) {
	c := New(2)
	_ = c.X(0)
	_ = c.X(0)
	_ = c.H(1) // lands at step 0, after two ops at steps 0 and 1

	ops := c.Operations()
	if ops[2].Gate.Kind != gate.KindH || ops[2].Step != 0 {
		t.Errorf("third op = %s at step %d, want H at step 0", ops[2].Gate, ops[2].Step)
	}
	if got := len(c.OpsAtStep(0)); got != 2 {
		t.Errorf("OpsAtStep(0) returned %d ops, want 2", got)
	}
}

func TestMeasureGrowsClassicalRegister(t *testing.T) {
	c := New(2)
	if c.NumClbits() != 0 {
		t.Fatalf("NumClbits() = %d, want 0", c.NumClbits())
	}
	_ = c.Measure(0, 4)
	if c.NumClbits() != 5 {
		t.Errorf("NumClbits() = %d, want 5", c.NumClbits())
	}
	_ = c.Measure(1, 1)
	if c.NumClbits() != 5 {
		t.Errorf("NumClbits() = %d after smaller cbit, want 5", c.NumClbits())
	}
	op := c.Operation(0)
	if !op.IsMeasurement() || op.Cbit != 4 {
		t.Errorf("measure op = %+v", op)
	}
	_ = c.H(0)
	if c.Operation(2).Step != 1 {
		t.Errorf("H after measure step = %d, want 1", c.Operation(2).Step)
	}
}

func TestOperationsReturnsCopy(t *testing.T) {
	c := New(1)
	_ = c.H(0)
	ops := c.Operations()
	ops[0].Step = 42
	if c.Operation(0).Step != 0 {
		t.Error("mutating Operations() result changed the circuit")
	}
}

func TestOperationQubitsAreCopied(t *testing.T) {
	c := New(2)
	_ = c.X(0)
	_ = c.CNOT(0, 1)

	ops := c.Operations()
	ops[0].Qubits[0] = 1
	ops[1].Qubits[1] = 0
	if got := c.Operation(0).Target(); got != 0 {
		t.Errorf("X target changed to %d through Operations()", got)
	}
	if got := c.Operation(1).Target(); got != 1 {
		t.Errorf("CNOT target changed to %d through Operations()", got)
	}

	op := c.Operation(1)
	op.Qubits[0] = 1
	if got := c.Operation(1).Controls()[0]; got != 0 {
		t.Errorf("CNOT control changed to %d through Operation(i)", got)
	}
}

func TestHasCustomGates(t *testing.T) {
	c := New(1)
	_ = c.H(0)
	if c.HasCustomGates() {
		t.Error("HasCustomGates() = true for fixed gates")
	}
	_ = c.AddGate(gate.Custom(gate.Identity(2), "id", "I"), 0)
	if !c.HasCustomGates() {
		t.Error("HasCustomGates() = false after custom gate")
	}
}

func TestCircuitString(t *testing.T) {
	c := New(2)
	_ = c.H(0)
	_ = c.CX(0, 1)
	s := c.String()
	for _, want := range []string{"2 qubits, 2 operations", "1. H on qubit 0", "2. CX on qubit 1 by 0"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}

func TestAppendOperationCopiesCircuit(t *testing.T) {
	src := New(2)
	_ = src.H(0)
	_ = src.CNOT(0, 1)
	_ = src.Measure(1, 3)

	dst := New(2)
	for _, op := range src.Operations() {
		if err := dst.AppendOperation(op); err != nil {
			t.Fatalf("AppendOperation(%s): %v", op, err)
		}
	}
	if dst.ToQASM() != src.ToQASM() {
		t.Errorf("copy differs:\n%s\nvs\n%s", dst.ToQASM(), src.ToQASM())
	}

	small := New(1)
	if err := small.AppendOperation(src.Operation(1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
