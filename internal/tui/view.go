package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qtermsim/internal/render"
)

const controlsHeight = 4

// circuitWidth is the outer width of the circuit panel.
func (m Model) circuitWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width - m.width/3 - 4
}

// resultsHeight is the outer height of the results panel.
func (m Model) resultsHeight() int {
	return max(m.height/3, 8)
}

// topHeight is the outer height of the circuit and QASM panels.
func (m Model) topHeight() int {
	return max(m.height-m.resultsHeight()-controlsHeight-2, 6)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.focus {
	case focusHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	case focusMenu:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderMenu())
	case focusInputParam:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderParamInput())
	}

	qasmWidth := m.width / 3
	circuitPanel := m.renderCircuitPanel(m.circuitWidth(), m.topHeight())
	qasmPanel := m.renderQASMPanel(qasmWidth, m.topHeight())
	resultsPanel := m.renderResultsPanel(m.width-4, m.resultsHeight())
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, resultsPanel, controlsPanel)
}

// renderCircuitPanel renders the circuit diagram panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(m.st.Title.Render(fmt.Sprintf("Quantum Circuit (%d qubits, %d operations)",
		m.circuit.NumQubits(), m.circuit.NumOperations())))
	sb.WriteString("\n\n")

	steps := render.MaxSteps(width - 4)
	if m.viewStartStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", m.viewStartStep, m.viewStartStep+steps-1)
	}
	sb.WriteString(render.DiagramWindow(m.circuit, m.st, m.viewStartStep, steps))
	sb.WriteString("\n")

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", m.st.Accent.Render(m.pendingGate.Name))
		fmt.Fprintf(&sb, "  control q[%d], target: ", m.cursorQubit)
		sb.WriteString(m.st.Selected.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(m.st.Dim.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Qubit: %s", m.st.Selected.Render(fmt.Sprintf("q[%d]", m.cursorQubit)))
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", m.st.Accent.Render(m.statusMsg))
		}
	}

	return m.st.Panel.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(m.st.Title.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return m.st.EditorPanel.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel shows the histogram and per-qubit marginals of the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var body string
	switch {
	case m.runErr != nil:
		body = m.st.Error.Render("Simulation failed: " + m.runErr.Error())
	case m.result == nil:
		body = m.st.Dim.Render("Running...")
	default:
		hist := render.Histogram(m.result, m.st)
		qubits := render.QubitTable(m.state(), m.st)
		body = lipgloss.JoinHorizontal(lipgloss.Top, hist, "    ", qubits)
	}
	return m.st.ResultsPanel.Width(width).Height(height).Render(body)
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(m.st.Accent.Render("Edit:    "))
	sb.WriteString("a Add gate  Bksp Undo  +/- Qubits  ↑↓ Qubit  ←→ Scroll\n")
	sb.WriteString(m.st.Accent.Render("Actions: "))
	sb.WriteString("Tab QASM  ^R Run  ^S Save  ? Help  q/^C Quit")

	return m.st.ResultsPanel.Width(width).Height(height).Render(sb.String())
}
