package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

//go:embed help.md
var helpText string

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func newHelpRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	return r
}

func (m *model) View() string {
	if m.width <= 0 {
		return "Loading slides...\n\nPress 'q' to quit."
	}

	content := m.frame
	if m.showHelp {
		content = m.helpView()
	}
	return content + "\n" + m.statusLine() + "\n" + m.progress.View()
}

// helpView is the key help, centered where the slide would be.
func (m *model) helpView() string {
	text := helpText
	if m.help != nil {
		if rendered, err := m.help.Render(helpText); err == nil {
			text = rendered
		}
	}
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	// the box needs 4 columns for its border and padding
	width := max(m.width-4, 1)
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	if max(m.rows()-2, 1) < len(lines) {
		lines = lines[:max(m.rows()-2, 1)]
	}
	box := helpStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.rows(), lipgloss.Center, lipgloss.Center, box)
}

// statusLine shows the slide number on the left, the title on the right and
// a flash message after the slide number.
func (m *model) statusLine() string {
	left := fmt.Sprintf("Slide %d/%d", m.deck.Active()+1, m.deck.Len())
	if m.flash != "" {
		left += " · " + m.flash
	}
	right := m.pres.title(m.deck)

	// Calculate available width (account for padding)
	available := m.width - statusStyle.GetHorizontalPadding()
	if ansi.StringWidth(left) > available {
		left = truncate.StringWithTail(left, uint(max(available, 0)), "...")
	}
	maxTitle := available - ansi.StringWidth(left) - 2
	if maxTitle < 10 {
		right = ""
	} else if ansi.StringWidth(right) > maxTitle {
		right = truncate.StringWithTail(right, uint(maxTitle), "...")
	}

	gap := max(available-ansi.StringWidth(left)-ansi.StringWidth(right), 0)
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
