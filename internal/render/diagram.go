// Package render turns circuits and simulation results into terminal text.
// Nothing here affects execution.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"qtermsim/internal/circuit"
	"qtermsim/internal/gate"
)

// ──────────────────────────── Grid model ────────────────────────────

type cellRole int

const (
	roleEmpty cellRole = iota
	roleGate
	roleControl
	roleTarget
	roleMeasure
)

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	op           *circuit.Operation
	role         cellRole
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// grid is a window of display columns over a circuit.
type grid struct {
	numQubits int
	first     int
	cells     [][]cellInfo // [column][qubit]
	cbits     [][]int      // classical bits written in each column
}

func buildGrid(c *circuit.Circuit, first, count int) grid {
	g := grid{
		numQubits: c.NumQubits(),
		first:     first,
		cells:     make([][]cellInfo, count),
		cbits:     make([][]int, count),
	}
	for col := range g.cells {
		g.cells[col] = make([]cellInfo, c.NumQubits())
	}

	ops := c.Operations()
	inWindow := func(op circuit.Operation) bool {
		return op.Step >= first && op.Step < first+count
	}

	// Occupants first, so connectors know which cells are free.
	for i := range ops {
		op := &ops[i]
		if !inWindow(*op) {
			continue
		}
		col := g.cells[op.Step-first]
		switch {
		case op.IsMeasurement():
			col[op.Target()] = cellInfo{op: op, role: roleMeasure}
			g.cbits[op.Step-first] = append(g.cbits[op.Step-first], op.Cbit)
		case len(op.Qubits) == 2:
			col[op.Qubits[0]] = cellInfo{op: op, role: roleControl}
			col[op.Target()] = cellInfo{op: op, role: roleTarget}
		default:
			col[op.Target()] = cellInfo{op: op, role: roleGate}
		}
	}

	for i := range ops {
		op := ops[i]
		if !inWindow(op) {
			continue
		}
		col := g.cells[op.Step-first]
		if op.IsMeasurement() {
			for q := op.Target() + 1; q < g.numQubits; q++ {
				col[q].measureBelow = true
			}
			continue
		}
		if len(op.Qubits) != 2 {
			continue
		}
		lo, hi := min(op.Qubits[0], op.Qubits[1]), max(op.Qubits[0], op.Qubits[1])
		for q := lo; q <= hi; q++ {
			if q > lo {
				col[q].vertAbove = true
			}
			if q < hi {
				col[q].vertBelow = true
			}
			if q > lo && q < hi && col[q].op == nil {
				col[q].passThrough = true
			}
		}
	}
	return g
}

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within width runes, truncating if needed.
func padCenter(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	total := width - len(r)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// controlSymbol returns the wire symbol for the control qubit of a two-qubit gate.
func controlSymbol(k gate.Kind) string {
	if k == gate.KindSWAP {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a two-qubit
// gate, or "" when the target is drawn as a box.
func targetSymbol(k gate.Kind) string {
	switch k {
	case gate.KindCNOT:
		return "⊕"
	case gate.KindCZ:
		return "●"
	case gate.KindSWAP:
		return "×"
	default:
		return ""
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell, each exactly
// cellW visible characters wide.
func renderCell(info cellInfo, st Styles) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + st.CbitConnect.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	wire := func(sym string) string {
		return strings.Repeat("─", dashL) + sym + strings.Repeat("─", dashR)
	}
	box := func(name string) (string, string, string) {
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		return strings.Repeat(" ", margin) + st.Gate.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin),
			strings.Repeat("─", margin) + st.Gate.Render("┤"+padCenter(name, gateNameW)+"├") + strings.Repeat("─", rightMargin),
			strings.Repeat(" ", margin) + st.Gate.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	}
	connectors := func() {
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		if info.measureBelow {
			bot = dblVertRow
		}
	}

	switch {
	case info.role == roleControl:
		connectors()
		mid = wire(st.Gate.Render(controlSymbol(info.op.Gate.Kind)))

	case info.role == roleTarget:
		if sym := targetSymbol(info.op.Gate.Kind); sym != "" {
			connectors()
			mid = wire(st.Gate.Render(sym))
			return
		}
		top, mid, bot = box(info.op.Gate.Symbol())
		if info.vertAbove {
			top = strings.Repeat(" ", halfW) + st.Gate.Render("┴") + strings.Repeat(" ", cellW-halfW-1)
		}
		if info.vertBelow {
			bot = strings.Repeat(" ", halfW) + st.Gate.Render("┬") + strings.Repeat(" ", cellW-halfW-1)
		}

	case info.role == roleMeasure:
		top, mid, bot = box("M")
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.role == roleGate:
		top, mid, bot = box(info.op.Gate.Symbol())
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.passThrough:
		top = vertRow
		mid = wire("┼")
		bot = vertRow
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.measureBelow:
		// A measurement above passes down to the classical wire.
		top = dblVertRow
		if info.vertAbove {
			top = vertRow
		}
		mid = wire(st.CbitConnect.Render("╫"))
		bot = dblVertRow

	default:
		connectors()
		mid = strings.Repeat("─", cellW)
	}
	return
}

// ──────────────────────────── Diagram ────────────────────────────

// Diagram renders the whole circuit.
func Diagram(c *circuit.Circuit, st Styles) string {
	return DiagramWindow(c, st, 0, c.Depth())
}

// DiagramWindow renders count display columns starting at first. At least one
// column is always drawn so empty circuits still show their wires.
func DiagramWindow(c *circuit.Circuit, st Styles, first, count int) string {
	first = max(first, 0)
	count = max(count, 1)
	g := buildGrid(c, first, count)

	var sb strings.Builder

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for col := range count {
		header += st.Dim.Render(padCenter(strconv.Itoa(first+col), cellW))
	}
	sb.WriteString(header + "\n")

	// Each qubit is 3 lines
	for q := range g.numQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := st.QubitLabel.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", q))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)
		for col := range count {
			top, mid, bot := renderCell(g.cells[col][q], st)
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// ── Classical register (single line) ──
	if c.NumClbits() > 0 {
		halfW := cellW / 2
		sepLine := strings.Repeat(" ", labelVisualW)
		cbitLine := st.CbitLabel.Render(fmt.Sprintf("%-5s", fmt.Sprintf("c%d", c.NumClbits()))) + st.CbitWire.Render("══")
		for col := range count {
			bits := g.cbits[col]
			if len(bits) == 0 {
				sepLine += strings.Repeat(" ", cellW)
				cbitLine += st.CbitWire.Render(strings.Repeat("═", cellW))
				continue
			}
			sepLine += strings.Repeat(" ", halfW) + st.CbitConnect.Render("║") + strings.Repeat(" ", cellW-halfW-1)

			labels := make([]string, len(bits))
			for i, b := range bits {
				labels[i] = strconv.Itoa(b)
			}
			bitLabel := strings.Join(labels, ",")
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += st.CbitWire.Render(strings.Repeat("═", dashL)) +
				st.CbitConnect.Render("╩"+bitLabel) +
				st.CbitWire.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(sepLine + "\n")
		sb.WriteString(cbitLine + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// MaxSteps returns how many display columns fit in width characters.
func MaxSteps(width int) int {
	return max((width-labelVisualW)/cellW, 1)
}
