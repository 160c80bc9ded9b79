package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	blockStyle     = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("236"))
	cellStyle      = lipgloss.NewStyle().Background(lipgloss.Color("254")).Foreground(lipgloss.Color("16"))
	entryStyle     = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("16"))
	activeStyle    = lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("16")).Bold(true)
	flashStyle     = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("16")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	deviceStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("147"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("150"))
	toastStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	helperStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	placeholderTag = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("(placeholder puzzle)")
)

func (m *Model) View() string {
	v := m.sess.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Daily %d×%d Cryptic — %s", v.Rows, v.Cols, v.PuzzleID)))
	if v.Placeholder {
		b.WriteString(" " + placeholderTag)
	}
	b.WriteString("\n\n")

	for _, row := range v.Cells {
		for _, c := range row {
			b.WriteString(m.renderCell(c))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if v.Clue != nil {
		b.WriteString(renderClue(v.Clue))
	}

	b.WriteString(renderProgress(v))
	b.WriteByte('\n')
	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteByte('\n')
	}
	help := helperStyle
	if m.width > 0 {
		help = help.Width(m.width)
	}
	b.WriteString(help.Render("arrows move · tab flips · ctrl+n/p clue · ctrl+l letter · ctrl+d definition · ctrl+a analysis · ctrl+g give up · ctrl+s share · esc quit"))
	return b.String()
}

func (m *Model) renderCell(c game.CellView) string {
	if c.Blocked {
		return blockStyle.Render(strings.Repeat(" ", cellWidth))
	}
	letter := c.Letter
	if letter == "" {
		letter = "·"
	}
	text := " " + letter + " "
	switch {
	case c.Active:
		return activeStyle.Render(text)
	case m.flash:
		return flashStyle.Render(text)
	case c.InEntry:
		return entryStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

func renderClue(c *game.ClueView) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(c.Header))
	if c.PrimaryDevice != "" {
		b.WriteString("  " + deviceStyle.Render("["+c.PrimaryDevice+"]"))
	}
	b.WriteByte('\n')
	b.WriteString(c.Surface)
	b.WriteByte('\n')

	if c.ShowDefinition {
		b.WriteString(hintStyle.Render("Definition: " + strings.Join(c.Definitions, " / ")))
		b.WriteByte('\n')
	}
	if c.ShowAnalysis {
		for _, s := range c.Segments {
			label := string(s.Type)
			if s.Category != "" {
				label += " (" + s.Category + ")"
			}
			line := fmt.Sprintf("  %s: %q", label, s.Text)
			if s.Tip != "" {
				line += " · " + s.Tip
			}
			b.WriteString(hintStyle.Render(line))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func renderProgress(v game.View) string {
	solved := 0
	for _, e := range v.Entries {
		if e.State.Solved {
			solved++
		}
	}
	if v.Complete {
		return fmt.Sprintf("All %d clues solved!", len(v.Entries))
	}
	return fmt.Sprintf("%d/%d clues solved", solved, len(v.Entries))
}
