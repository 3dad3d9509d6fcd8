package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pengelbrecht/thinker/internal/thinking"
)

// Layout constants
const (
	cardWidth = 56 // Fixed card width, borders included
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#FFFFFF")
	secondaryColor = lipgloss.Color("86")  // Cyan
	accentColor    = lipgloss.Color("78")  // Green
	mutedColor     = lipgloss.Color("241") // Gray
	dimColor       = lipgloss.Color("238")
	lineColor      = lipgloss.Color("250")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Background(lipgloss.Color("#000000")).
			Padding(0, 1)

	hoverCardStyle = cardStyle.
			BorderForeground(secondaryColor)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	elapsedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	toggleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	lineStyle = lipgloss.NewStyle().
			Foreground(lineColor)

	// The top row of the scroll region fades out once lines scroll past it.
	maskStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	pulseBrightStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	pulseDimStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Faint(true)

	// Footer styles
	keyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	descStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // Orange
			Padding(0, 1)
)

// visibleLines returns the plain text of every revealed line.
func (m Model) visibleLines() []thinking.StatusLine {
	return m.state.Visible()
}

// renderLines renders the revealed prefix. Older lines are settled; the
// newest reveals word by word, and pulses while the clock is paused.
func (m Model) renderLines() string {
	lines := m.visibleLines()
	if len(lines) == 0 {
		return ""
	}

	width := m.viewport.Width
	rendered := make([]string, len(lines))
	for i, l := range lines[:len(lines)-1] {
		rendered[i] = lineStyle.Render(ansi.Truncate(string(l), width, "…"))
	}
	rendered[len(lines)-1] = m.renderNewest(lines[len(lines)-1], width)
	return strings.Join(rendered, "\n")
}

// renderNewest splits line into word tokens and reveals them staggered.
func (m Model) renderNewest(line thinking.StatusLine, width int) string {
	tokens := strings.Fields(ansi.Truncate(string(line), width, "…"))

	shown := len(tokens)
	if !m.state.Paused() {
		shown = m.revealedTokens(len(tokens))
	}

	parts := make([]string, 0, shown)
	for i, tok := range tokens[:shown] {
		switch {
		case m.state.Paused() && (m.frame+i)%2 == 0:
			parts = append(parts, pulseBrightStyle.Render(tok))
		case m.state.Paused():
			parts = append(parts, pulseDimStyle.Render(tok))
		default:
			parts = append(parts, lineStyle.Render(tok))
		}
	}
	return strings.Join(parts, " ")
}

// revealedTokens returns how many of n tokens are visible at the current
// frame.
func (m Model) revealedTokens(n int) int {
	per := revealFrames
	if m.state.Hovered {
		per = hoverRevealFrames
	}
	shown := (m.frame-m.revealFrame)/per + 1
	if shown > n {
		shown = n
	}
	if shown < 0 {
		shown = 0
	}
	return shown
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := lipgloss.JoinVertical(lipgloss.Left, m.renderCard(), m.renderFooter())
	if m.width > 0 && m.height > 0 {
		body = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return zone.Scan(body)
}

// renderCard renders the bordered card: header row plus scroll region.
func (m Model) renderCard() string {
	panel, _ := m.panelHeights()

	style := cardStyle
	if m.state.Hovered {
		style = hoverCardStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderScrollRegion())
	card := style.
		Width(cardWidth - 2).
		Height(panel - 2).
		MaxHeight(panel).
		Render(content)

	return zone.Mark(zoneCard, card)
}

// renderHeader renders "Thinking", the spinner, the elapsed label and the
// expand toggle.
func (m Model) renderHeader() string {
	left := titleStyle.Render("Thinking") + " " + m.spinner.View()

	toggle := "[+]"
	if m.state.Expanded {
		toggle = "[-]"
	}
	right := elapsedStyle.Render(thinking.FormatElapsed(m.state.Elapsed)) + " " +
		zone.Mark(zoneToggle, toggleStyle.Render(toggle))

	// Calculate padding to right-align
	padding := cardWidth - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderScrollRegion renders the viewport with a faded top edge.
func (m Model) renderScrollRegion() string {
	view := m.viewport.View()
	if m.viewport.YOffset == 0 {
		return view
	}
	rows := strings.Split(view, "\n")
	rows[0] = maskStyle.Render(ansi.Strip(rows[0]))
	return strings.Join(rows, "\n")
}

// renderFooter renders key help and any update notice.
func (m Model) renderFooter() string {
	footer := m.help.View(m.keys)
	if m.updateNotice != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, footer, noticeStyle.Render(m.updateNotice))
	}
	return footer
}
