// Package tui is an interactive circuit viewer and editor built on bubbletea.
// Every edit produces a new circuit, which is re-simulated in the background.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"qtermsim/internal/circuit"
	"qtermsim/internal/gate"
	"qtermsim/internal/render"
	"qtermsim/internal/simulator"
	"qtermsim/internal/statevector"
)

// maxQubits caps the register size editable from the TUI.
const maxQubits = 12

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusInputParam
	focusHelp
)

// Options configures the viewer.
type Options struct {
	Shots    int
	Seed     uint64
	Seeded   bool
	SavePath string
	Logger   *zap.Logger
	Styles   render.Styles
}

// resultMsg carries a finished simulation back to Update.
type resultMsg struct {
	circuit *circuit.Circuit
	result  *simulator.Result
	err     error
}

// Model represents the TUI application state.
type Model struct {
	opts    Options
	st      render.Styles
	circuit *circuit.Circuit // replaced, never mutated, once shown
	result  *simulator.Result
	runErr  error

	cursorQubit   int
	viewStartStep int
	width         int
	height        int
	qasmEditor    textarea.Model
	focus         focus
	lastQASM      string
	statusMsg     string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int

	// Pending gate state (two-qubit targets and rotation angles)
	pendingGate gate.Entry
	targetQubit int
	paramInput  string
}

// New returns a model showing c.
func New(c *circuit.Circuit, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SavePath == "" {
		opts.SavePath = "circuit.qasm"
	}
	if opts.Shots <= 0 {
		opts.Shots = 1024
	}

	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		opts:       opts,
		st:         opts.Styles,
		qasmEditor: ta,
		focus:      focusCircuit,
	}
	m.setCircuit(c)
	return m
}

// setCircuit swaps in a new circuit and refreshes the QASM view.
func (m *Model) setCircuit(c *circuit.Circuit) {
	m.circuit = c
	m.cursorQubit = min(m.cursorQubit, max(c.NumQubits()-1, 0))
	qasm := c.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
}

// rebuild copies c into a register of n qubits, skipping operations for which
// drop returns true or that no longer fit.
func rebuild(c *circuit.Circuit, n int, drop func(i int, op circuit.Operation) bool) *circuit.Circuit {
	next := circuit.New(n)
	for i, op := range c.Operations() {
		if drop != nil && drop(i, op) {
			continue
		}
		_ = next.AppendOperation(op)
	}
	return next
}

// appendGate adds g on the given qubits to a copy of the circuit.
func (m *Model) appendGate(g gate.Gate, qubits ...int) tea.Cmd {
	next := rebuild(m.circuit, m.circuit.NumQubits(), nil)
	op := circuit.Operation{Gate: g, Qubits: qubits, Cbit: -1}
	if g.Kind == gate.KindMeasure {
		op.Cbit = qubits[0]
	}
	if err := next.AppendOperation(op); err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	m.setCircuit(next)
	m.scrollToEnd()
	return m.runCmd()
}

// scrollToEnd keeps the newest column in view.
func (m *Model) scrollToEnd() {
	visible := render.MaxSteps(m.circuitWidth() - 4)
	m.viewStartStep = max(m.circuit.Depth()-visible, 0)
}

// parseQASMInput applies the editor contents if they changed. On error the
// current circuit is kept.
func (m *Model) parseQASMInput() tea.Cmd {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return nil
	}
	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	if c.NumQubits() > maxQubits {
		m.statusMsg = fmt.Sprintf("at most %d qubits in the viewer", maxQubits)
		return nil
	}
	m.setCircuit(c)
	m.viewStartStep = 0
	return m.runCmd()
}

// runCmd simulates the current circuit off the update loop.
func (m Model) runCmd() tea.Cmd {
	c := m.circuit
	shots := m.opts.Shots
	opts := []simulator.Option{
		simulator.WithName("viewer"),
		simulator.WithCircuit(c),
		simulator.WithLogger(m.opts.Logger),
	}
	if m.opts.Seeded {
		opts = append(opts, simulator.WithSeed(m.opts.Seed))
	}
	return func() tea.Msg {
		res, err := simulator.New(opts...).Run(shots)
		return resultMsg{circuit: c, result: res, err: err}
	}
}

// state returns the final state of the last run, or nil.
func (m Model) state() *statevector.StateVector {
	if m.result == nil {
		return nil
	}
	return &statevector.StateVector{Amplitudes: m.result.FinalState, NumQubits: m.result.NumQubits}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.runCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(m.topHeight()-6, 4))
		return m, nil

	case resultMsg:
		if msg.circuit != m.circuit {
			// Stale: the circuit changed while this run was in flight.
			return m, nil
		}
		m.result, m.runErr = msg.result, msg.err
		if msg.err != nil {
			m.opts.Logger.Warn("simulation failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus != focusInputParam {
		m.statusMsg = ""
	}

	switch m.focus {
	case focusHelp:
		m.focus = focusCircuit

	case focusCircuit:
		switch key {
		case "q":
			return m, tea.Quit
		case "?":
			m.focus = focusHelp
		case "tab":
			m.focus = focusQASM
			m.qasmEditor.Focus()
		case "ctrl+r":
			return m, m.runCmd()
		case "ctrl+s":
			if err := os.WriteFile(m.opts.SavePath, []byte(m.circuit.ToQASM()), 0644); err != nil {
				m.statusMsg = fmt.Sprintf("Save error: %v", err)
			} else {
				m.statusMsg = "Saved " + m.opts.SavePath
			}
		case "up", "k":
			if m.cursorQubit > 0 {
				m.cursorQubit--
			}
		case "down", "j":
			if m.cursorQubit < m.circuit.NumQubits()-1 {
				m.cursorQubit++
			}
		case "left", "h":
			if m.viewStartStep > 0 {
				m.viewStartStep--
			}
		case "right", "l":
			if m.viewStartStep < m.circuit.Depth()-1 {
				m.viewStartStep++
			}
		case "+", "=":
			if m.circuit.NumQubits() >= maxQubits {
				m.statusMsg = fmt.Sprintf("at most %d qubits in the viewer", maxQubits)
				break
			}
			m.setCircuit(rebuild(m.circuit, m.circuit.NumQubits()+1, nil))
			return m, m.runCmd()
		case "-":
			n := m.circuit.NumQubits() - 1
			if n < 1 {
				break
			}
			m.setCircuit(rebuild(m.circuit, n, func(_ int, op circuit.Operation) bool {
				return op.References(n)
			}))
			return m, m.runCmd()
		case "backspace", "delete":
			last := m.circuit.NumOperations() - 1
			if last < 0 {
				break
			}
			m.setCircuit(rebuild(m.circuit, m.circuit.NumQubits(), func(i int, _ circuit.Operation) bool {
				return i == last
			}))
			m.scrollToEnd()
			return m, m.runCmd()
		case "a":
			m.focus = focusMenu
			m.menuCat = 0
			m.menuItem = 0
		}

	case focusQASM:
		switch key {
		case "tab", "esc":
			m.focus = focusCircuit
			m.qasmEditor.Blur()
			cmd := m.parseQASMInput()
			return m, cmd
		case "ctrl+r":
			cmd := m.parseQASMInput()
			return m, cmd
		}
		var cmd tea.Cmd
		m.qasmEditor, cmd = m.qasmEditor.Update(msg)
		return m, cmd

	case focusMenu:
		switch key {
		case "esc":
			m.focus = focusCircuit
		case "up", "k":
			if m.menuItem > 0 {
				m.menuItem--
			}
		case "down", "j":
			if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
				m.menuItem++
			}
		case "left", "h":
			if m.menuCat > 0 {
				m.menuCat--
				m.menuItem = 0
			}
		case "right", "l":
			if m.menuCat < len(gateMenu)-1 {
				m.menuCat++
				m.menuItem = 0
			}
		case "enter":
			return m.selectMenuItem(gateMenu[m.menuCat].items[m.menuItem])
		}

	case focusSelectTarget:
		switch key {
		case "esc":
			m.focus = focusCircuit
		case "up", "k":
			for next := m.targetQubit - 1; next >= 0; next-- {
				if next != m.cursorQubit {
					m.targetQubit = next
					break
				}
			}
		case "down", "j":
			for next := m.targetQubit + 1; next < m.circuit.NumQubits(); next++ {
				if next != m.cursorQubit {
					m.targetQubit = next
					break
				}
			}
		case "enter":
			g, _ := gate.FromQASM(m.pendingGate.QASM, 0)
			m.focus = focusCircuit
			cmd := m.appendGate(g, m.cursorQubit, m.targetQubit)
			return m, cmd
		}

	case focusInputParam:
		switch msg.Type {
		case tea.KeyEsc:
			m.focus = focusCircuit
			m.statusMsg = ""
		case tea.KeyEnter:
			theta, err := circuit.ParseAngle(m.paramInput)
			if err != nil {
				m.statusMsg = err.Error()
				break
			}
			g, _ := gate.FromQASM(m.pendingGate.QASM, theta)
			m.focus = focusCircuit
			m.statusMsg = ""
			cmd := m.appendGate(g, m.cursorQubit)
			return m, cmd
		case tea.KeyBackspace:
			if r := []rune(m.paramInput); len(r) > 0 {
				m.paramInput = string(r[:len(r)-1])
			}
		case tea.KeyRunes, tea.KeySpace:
			m.paramInput += string(msg.Runes)
		}
	}

	return m, nil
}

// selectMenuItem starts placing the chosen gate at the cursor qubit.
func (m Model) selectMenuItem(e gate.Entry) (tea.Model, tea.Cmd) {
	m.pendingGate = e
	switch {
	case e.HasAngle:
		m.paramInput = ""
		m.focus = focusInputParam
	case e.Arity == 2:
		if m.circuit.NumQubits() < 2 {
			m.statusMsg = e.Name + " needs at least 2 qubits"
			m.focus = focusCircuit
			break
		}
		m.focus = focusSelectTarget
		m.targetQubit = m.cursorQubit + 1
		if m.targetQubit >= m.circuit.NumQubits() {
			m.targetQubit = m.cursorQubit - 1
		}
	default:
		g, _ := gate.FromQASM(e.QASM, 0)
		m.focus = focusCircuit
		cmd := m.appendGate(g, m.cursorQubit)
		return m, cmd
	}
	return m, nil
}

// Run starts the viewer on the terminal and blocks until it exits.
func Run(c *circuit.Circuit, opts Options) error {
	_, err := tea.NewProgram(New(c, opts), tea.WithAltScreen()).Run()
	return err
}
