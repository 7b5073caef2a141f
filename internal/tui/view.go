package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/talgya/incremental/internal/dispatch"
	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
)

const gaugeWidth = 20

type styles struct {
	title    lipgloss.Style
	box      lipgloss.Style
	row      lipgloss.Style
	selected lipgloss.Style
	filled   lipgloss.Style
	empty    lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		row:      lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		filled:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading...\n"
	}
	if m.frame.Status == dispatch.Stopped {
		if m.frame.SaveErr != nil {
			return fmt.Sprintf("Save failed: %v\n", m.frame.SaveErr)
		}
		return "Game saved.\n"
	}

	selected, hasSelection := m.frame.Cursor.Selected()
	rows := make([]string, 0, m.frame.State.Len())
	for i, r := range m.frame.State.Resources {
		line := m.resourceRow(r, hasSelection && i == selected)
		rows = append(rows, line)
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Incremental"))
	b.WriteString("\n")
	box := m.styles.box
	if m.width > 0 {
		box = box.MaxWidth(m.width)
	}
	b.WriteString(box.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("↑/↓ select • enter upgrade • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) resourceRow(r economy.Resource, selected bool) string {
	marker := "  "
	style := m.styles.row
	if selected {
		marker = "> "
		style = m.styles.selected
	}

	perSecond := r.Rate() * engine.TickRate
	text := fmt.Sprintf("%s%-8s %s %12s  Lv %-4d %6.2f/s  next %s",
		marker,
		r.Kind,
		m.gauge(r.Progress, gaugeWidth),
		economy.FormatAmount(r.Amount),
		r.Level,
		perSecond,
		r.UpgradeCost(),
	)
	return style.Render(text)
}

// gauge draws progress in [0, 1) as a fixed-width bar.
func (m Model) gauge(progress float64, width int) string {
	full := int(progress * float64(width))
	full = max(0, min(full, width))
	return m.styles.filled.Render(strings.Repeat("█", full)) +
		m.styles.empty.Render(strings.Repeat("░", width-full))
}
