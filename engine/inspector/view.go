package inspector

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/charmbracelet/lipgloss"
)

// hint is one key/description pair in the footer.
type hint struct {
	key  string
	desc string
}

var hints = []hint{
	{"j/k", "move"},
	{"enter", "select"},
	{"1/2/3", "scope"},
	{"l", "labels"},
	{"a", "animate"},
	{"r", "rotate"},
	{"c", "clear"},
	{"q", "quit"},
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderAtoms(bodyHeight), footer)
}

func (m Model) renderHeader() string {
	sep := headerSepStyle.Render(" │ ")

	parts := []string{headerBrandStyle.Render("OXY-MOL")}
	if m.title != "" {
		parts = append(parts, headerMetaStyle.Render(m.title))
	}
	parts = append(parts,
		headerMetaStyle.Render(fmt.Sprintf("%d atoms", len(m.snap.Atoms))),
		headerMetaStyle.Render(fmt.Sprintf("%d selected", len(m.selected))),
		headerMetaStyle.Render("scope "+common.Coalesce(m.eng.Props().SelectionType, "atom")),
	)

	state := m.eng.Session().AnimationState().String()
	if m.snap.Frames > 0 {
		state = fmt.Sprintf("%s %d/%d", state, m.snap.Frame+1, m.snap.Frames)
	}
	parts = append(parts, headerMetaStyle.Render(state))

	if m.eng.Session().Rotating() {
		parts = append(parts, headerActiveStyle.Render("rotating"))
	}

	return headerBarStyle.Width(m.width).Render(strings.Join(parts, sep))
}

// renderAtoms draws the scrolling atom list, keeping the cursor in view.
func (m Model) renderAtoms(height int) string {
	if len(m.snap.Atoms) == 0 {
		return lipgloss.NewStyle().Height(height).Render(emptyStateStyle.Render("No model loaded."))
	}

	offset := 0
	if m.cursor >= height {
		offset = m.cursor - height + 1
	}
	end := min(offset+height, len(m.snap.Atoms))

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderAtom(i))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderAtom(i int) string {
	view := m.snap.Atoms[i]
	atom := m.atoms[view.Serial]

	marker := "○"
	if m.selected[view.Serial] {
		marker = atomSelectedDot.Render("●")
	}

	hex := common.Color(view.Color).Hex()
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")

	residue := fmt.Sprintf("%s%d", atom.ResidueName, atom.ResidueIndex)
	row := fmt.Sprintf("%s %5d  %-4s %-2s %-8s %-2s %s %s  %s",
		marker,
		view.Serial,
		common.Coalesce(atom.Name, view.Element),
		view.Element,
		residue,
		atom.Chain,
		swatch,
		atomDimStyle.Render(hex),
		atomDimStyle.Render(view.Style.Canonical()),
	)
	if view.Opacity < 1 {
		row += atomDimStyle.Render(fmt.Sprintf("  α=%.2f", view.Opacity))
	}

	if i == m.cursor {
		return atomCursorStyle.Width(m.width).Render(row)
	}
	return atomItemStyle.Render(row)
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = statusErrStyle.Width(m.width).Render(m.statusMsg)
	case m.statusMsg != "":
		status = statusStyle.Width(m.width).Render(m.statusMsg)
	default:
		status = statusStyle.Width(m.width).Render(m.renderHints())
	}
	if len(m.snap.Shapes) > 0 || len(m.snap.Surfaces) > 0 {
		extra := statusWarnStyle.Render(fmt.Sprintf("%d shapes, %d surfaces", len(m.snap.Shapes), len(m.snap.Surfaces)))
		status = lipgloss.JoinVertical(lipgloss.Left, statusStyle.Width(m.width).Render(extra), status)
	}
	return status
}

func (m Model) renderHints() string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, "  ")
}
