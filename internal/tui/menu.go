package tui

import (
	"fmt"
	"strings"

	"qtermsim/internal/gate"
)

// menuCategory groups related gates under a tab.
type menuCategory struct {
	name  string
	items []gate.Entry
}

// gateMenu is the gate picker, built from the catalog.
var gateMenu = buildMenu(gate.Catalog())

func buildMenu(entries []gate.Entry) []menuCategory {
	cats := []menuCategory{
		{name: "Single Qubit"},
		{name: "Rotation"},
		{name: "Two Qubit"},
		{name: "Measurement"},
	}
	for _, e := range entries {
		var i int
		switch {
		case e.QASM == "measure":
			i = 3
		case e.HasAngle:
			i = 1
		case e.Arity == 2:
			i = 2
		}
		cats[i].items = append(cats[i].items, e)
	}
	return cats
}

// menuSymbol is the wire picture shown next to a menu item.
func menuSymbol(e gate.Entry) string {
	switch e.QASM {
	case "cx":
		return "●─⊕"
	case "cz":
		return "●─●"
	case "swap":
		return "×─×"
	default:
		return e.Symbol
	}
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(m.st.Title.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(m.st.Accent.Render(name))
		} else {
			sb.WriteString(m.st.Dim.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(m.st.Dim.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(m.st.Dim.Render(strings.Repeat("─", 48)))
	sb.WriteString("\n")

	// Items in the selected category
	for i, item := range gateMenu[m.menuCat].items {
		if i == m.menuItem {
			sb.WriteString(m.st.Selected.Render(" ▸ "))
			sb.WriteString(m.st.Selected.Render(fmt.Sprintf("%-14s", item.Name)))
			sb.WriteString(m.st.Gate.Render(menuSymbol(item)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(m.st.Normal.Render(fmt.Sprintf("%-14s", item.Name)))
			sb.WriteString(m.st.Dim.Render(menuSymbol(item)))
		}
		if item.Arity == 2 {
			sb.WriteString(m.st.Dim.Render(" →target"))
		}
		if item.HasAngle {
			sb.WriteString(m.st.Dim.Render(" (pi/2)"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(m.st.Dim.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return m.st.HelpPanel.Render(sb.String())
}

// renderParamInput renders the angle prompt for rotations.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(m.st.Title.Render("Rotation angle for " + m.pendingGate.Name))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Value: %s_", m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(m.st.Dim.Render("Examples: pi/2, 3*pi/4, 1.57"))
	if m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(m.st.Error.Render(m.statusMsg))
	}
	return m.st.HelpPanel.Render(sb.String())
}

// renderHelp lists key bindings and the gate catalog.
func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.st.Title.Render("Keys"))
	sb.WriteString("\n")
	for _, k := range [][2]string{
		{"↑↓ / jk", "select qubit"},
		{"←→ / hl", "scroll steps"},
		{"a", "append a gate"},
		{"bksp", "remove last operation"},
		{"+ / -", "add or remove a qubit"},
		{"tab", "edit QASM (tab again to apply)"},
		{"ctrl+r", "re-run the simulation"},
		{"ctrl+s", "save QASM to " + m.opts.SavePath},
		{"?", "toggle this help"},
		{"q / ctrl+c", "quit"},
	} {
		fmt.Fprintf(&sb, "  %s %s\n", m.st.Accent.Render(fmt.Sprintf("%-11s", k[0])), k[1])
	}

	sb.WriteString("\n")
	sb.WriteString(m.st.Title.Render("Gates"))
	sb.WriteString("\n")
	for _, e := range gate.Catalog() {
		fmt.Fprintf(&sb, "  %s %-14s %s\n",
			m.st.Gate.Render(fmt.Sprintf("%-8s", e.QASM)), e.Name, m.st.Dim.Render(menuSymbol(e)))
	}
	sb.WriteString(m.st.Dim.Render("  any key to close"))
	return m.st.HelpPanel.Render(sb.String())
}
