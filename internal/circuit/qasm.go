package circuit

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qtermsim/internal/gate"
)

// ErrQASM is returned for OpenQASM input that cannot be parsed.
var ErrQASM = errors.New("invalid qasm")

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+\w+\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(([^()]+)\)\s+\w+\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+\w+\[(\d+)\],\s*\w+\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+\w+\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	cregRegex            = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\];?$`)
)

// ToQASM renders the circuit as OpenQASM 2.0 in execution order. Custom gates
// have no QASM form and are written as comments.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	if c.numClbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.numClbits)
	}
	sb.WriteString("\n")

	for _, op := range c.ops {
		g := op.Gate
		switch g.Kind {
		case gate.KindMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", op.Target(), op.Cbit)
		case gate.KindCNOT:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", op.Qubits[0], op.Target())
		case gate.KindCZ:
			fmt.Fprintf(&sb, "cz q[%d], q[%d];\n", op.Qubits[0], op.Target())
		case gate.KindSWAP:
			fmt.Fprintf(&sb, "swap q[%d], q[%d];\n", op.Qubits[0], op.Target())
		case gate.KindRX, gate.KindRY, gate.KindRZ:
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", strings.ToLower(g.Symbol()), FormatAngle(g.Theta), op.Target())
		case gate.KindCustom:
			qubits := make([]string, len(op.Qubits))
			for i, q := range op.Qubits {
				qubits[i] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "// custom %s %s\n", g.Name(), strings.Join(qubits, ", "))
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", strings.ToLower(g.Symbol()), op.Target())
		}
	}

	return sb.String()
}

// singleQubitGates maps lower-case QASM names to fixed gates.
var singleQubitGates = map[string]func() gate.Gate{
	"h": gate.H,
	"x": gate.X,
	"y": gate.Y,
	"z": gate.Z,
	"s": gate.S,
	"t": gate.T,
}

var rotationGates = map[string]func(float64) gate.Gate{
	"rx": gate.RX,
	"ry": gate.RY,
	"rz": gate.RZ,
}

var twoQubitGates = map[string]func() gate.Gate{
	"cx":   gate.CNOT,
	"cnot": gate.CNOT,
	"cz":   gate.CZ,
	"swap": gate.SWAP,
}

// ParseQASM builds a circuit from OpenQASM 2.0 source. The qreg declaration
// sets the register size and must precede any gate. Only the gates in the
// catalog are accepted; barriers and comments are skipped.
func ParseQASM(src string) (*Circuit, error) {
	var c *Circuit

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}
		lineNo := i + 1

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			if c != nil {
				return nil, fmt.Errorf("%w: line %d: only one qreg is supported", ErrQASM, lineNo)
			}
			n, err := strconv.Atoi(m[2])
			if err != nil || n > MaxQubits {
				return nil, fmt.Errorf("%w: line %d: register size %s exceeds %d qubits", ErrQASM, lineNo, m[2], MaxQubits)
			}
			c = New(n)
			continue
		}
		if cregRegex.MatchString(line) {
			continue
		}
		if c == nil {
			return nil, fmt.Errorf("%w: line %d: gate before qreg declaration", ErrQASM, lineNo)
		}

		if err := c.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if c == nil {
		return nil, fmt.Errorf("%w: missing qreg declaration", ErrQASM)
	}
	return c, nil
}

func (c *Circuit) parseLine(line string) error {
	// Measurement: "measure q[0] -> c[0];"
	if m := measureRegex.FindStringSubmatch(line); m != nil {
		q, _ := strconv.Atoi(m[1])
		cbit, _ := strconv.Atoi(m[2])
		return c.Measure(q, cbit)
	}

	// Two-qubit gates: cx, cz, swap
	if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		ctor, ok := twoQubitGates[name]
		if !ok {
			return fmt.Errorf("%w: unsupported two-qubit gate %q", ErrQASM, name)
		}
		q1, _ := strconv.Atoi(m[2])
		q2, _ := strconv.Atoi(m[3])
		return c.AppendControlled(ctor(), q1, q2)
	}

	// Rotations: rx(pi/2) q[0];
	if m := singleGateParamRegex.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		ctor, ok := rotationGates[name]
		if !ok {
			return fmt.Errorf("%w: unsupported parameterized gate %q", ErrQASM, name)
		}
		theta, err := ParseAngle(m[2])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrQASM, err)
		}
		q, _ := strconv.Atoi(m[3])
		return c.Append(ctor(theta), q)
	}

	if m := singleGateRegex.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		ctor, ok := singleQubitGates[name]
		if !ok {
			return fmt.Errorf("%w: unsupported gate %q", ErrQASM, name)
		}
		q, _ := strconv.Atoi(m[2])
		return c.Append(ctor(), q)
	}

	return fmt.Errorf("%w: cannot parse %q", ErrQASM, line)
}
