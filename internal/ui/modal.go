package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal is the framed overlay shared by the editor, settings and help
type Modal struct {
	title   string
	width   int
	height  int
	visible bool
}

// NewModal creates a hidden modal
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

func (m *Modal) Show() {
	m.visible = true
}

func (m *Modal) Hide() {
	m.visible = false
}

func (m Modal) IsVisible() bool {
	return m.visible
}

// SetTitle changes the frame title
func (m *Modal) SetTitle(title string) {
	m.title = title
}

// fit sizes the modal to a share of the terminal, bounded by min and the terminal itself
func (m *Modal) fit(termWidth, termHeight int, share float64, minWidth, minHeight int) {
	w := max(int(float64(termWidth)*share), minWidth)
	h := max(termHeight-6, minHeight)
	m.width = min(w, max(termWidth-4, 1))
	m.height = min(h, max(termHeight-2, 1))
}

// Frame renders body inside the modal border with the title on top
func (m Modal) Frame(body string, theme StyleTheme) string {
	var content strings.Builder
	if m.title != "" {
		content.WriteString(theme.SelectedStyle().Render(m.title))
		content.WriteString("\n\n")
	}
	content.WriteString(body)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		MaxHeight(m.height+2).
		Padding(1, 2).
		Render(content.String())
}

// overlay centers fg over a blanked background, keeping the background's
// header line so the gradient bar stays visible
func overlay(background, fg string, termWidth, termHeight int) string {
	header, _, _ := strings.Cut(background, "\n")
	body := lipgloss.Place(termWidth, max(termHeight-1, 1), lipgloss.Center, lipgloss.Center, fg)
	return header + "\n" + body
}
