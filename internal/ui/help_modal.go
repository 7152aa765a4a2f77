package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists key bindings, commands and mouse gestures
type HelpModal struct {
	Modal
	keys      keyMap
	longPress time.Duration
	tapEdits  bool
}

// NewHelpModal creates a hidden help modal
func NewHelpModal(keys keyMap, longPress time.Duration, tapEdits bool) HelpModal {
	return HelpModal{
		Modal:     NewModal("KEYBOARD SHORTCUTS", 80, 30),
		keys:      keys,
		longPress: longPress,
		tapEdits:  tapEdits,
	}
}

// SetSize sizes the modal to 75% of the terminal width
func (m *HelpModal) SetSize(width, height int) {
	m.fit(width, height, 0.75, 50, 20)
}

// Update closes the modal on esc, q or ?
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Hide()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// View renders the modal body inside its frame
func (m HelpModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Tag).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Text)
	row := func(k, desc string) string {
		return "  " + keyStyle.Render(k) + strings.Repeat(" ", max(1, 16-lipgloss.Width(k))) + descStyle.Render(desc)
	}
	header := func(title string) string {
		text := "── " + title + " "
		return theme.SelectedStyle().Render(text + strings.Repeat("─", max(0, m.width-8-lipgloss.Width(text))))
	}

	var b strings.Builder
	b.WriteString(theme.MutedStyle().Render(centerText("Press : for commands like :new, :category, :copy", m.width-4)))
	b.WriteString("\n\n")

	titles := []string{"NAVIGATION", "CATEGORIES", "ENTRIES", "SYSTEM"}
	for i, group := range m.keys.FullHelp() {
		b.WriteString(header(titles[i]))
		b.WriteString("\n")
		for _, binding := range group {
			b.WriteString(row(bindingHelp(binding)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(header("MOUSE"))
	b.WriteString("\n")
	b.WriteString(row("wheel", "scroll, loads more at the end"))
	b.WriteString("\n")
	b.WriteString(row(fmt.Sprintf("hold %dms", m.longPress.Milliseconds()), "edit entry"))
	b.WriteString("\n")
	if m.tapEdits {
		b.WriteString(row("click", "edit entry"))
	} else {
		b.WriteString(row("click", "select entry"))
	}
	b.WriteString("\n\n")

	b.WriteString(header("COMMAND MODE (:)"))
	b.WriteString("\n")
	for _, c := range [][2]string{
		{":new [text]", "new entry"},
		{":edit", "edit selected entry"},
		{":category <name>", "switch category"},
		{":refresh", "reload categories"},
		{":retry", "retry failed page"},
		{":copy [all]", "copy entry, all adds date and tags"},
		{":settings", "host and page size"},
		{":theme", "cycle theme"},
		{":quit", "exit"},
	} {
		b.WriteString(row(c[0], c[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.MutedStyle().Render(centerText("Press ESC or ? to close", m.width-4)))

	return m.Frame(b.String(), theme)
}

func bindingHelp(b key.Binding) (string, string) {
	h := b.Help()
	return h.Key, h.Desc
}
