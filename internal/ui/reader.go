package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/voicejournal/internal/feed"
)

// renderMarkdown renders entry content with glamour, falling back to plain
// wrapped text if the renderer fails
func renderMarkdown(content string, width int, theme StyleTheme) string {
	if strings.TrimSpace(content) == "" {
		return theme.MutedStyle().Render("(leerer Eintrag)")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.ToGlamourStyle()),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return wrapText(content, width)
	}
	out, err := r.Render(content)
	if err != nil {
		return wrapText(content, width)
	}
	return strings.Trim(out, "\n")
}

// readerHeader is the date, time and tag block above the reader viewport
func readerHeader(row feed.Row, date string, width int, theme StyleTheme) string {
	lines := []string{theme.SeparatorStyle().Render(date)}

	meta := theme.TimeStyle().Render(row.Time)
	if len(row.Tags) > 0 {
		meta += "  " + theme.TagStyle().Render(strings.Join(row.Tags, " • "))
	}
	lines = append(lines, meta)
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.Surface).Render(strings.Repeat("─", max(width, 1))))
	return strings.Join(lines, "\n")
}

// updateReaderContent points the reader at the selected entry
func (m *Model) updateReaderContent() {
	row, ok := m.selectedEntry()
	if !ok {
		m.reader.SetContent("Kein Eintrag ausgewählt")
		return
	}
	m.readerEntry = row.EntryID

	width := max(m.width-4, 20)
	m.reader.Width = width
	m.reader.Height = max(m.feedHeight()-3, 3)
	m.reader.SetContent(renderMarkdown(row.Content, width, m.theme()))
	m.reader.GotoTop()
}

// readerView renders the reader pane for the selected entry
func (m Model) readerView() string {
	row, ok := m.selectedEntry()
	if !ok {
		return ""
	}
	date := ""
	if entry, found := m.engine.Model().Lookup(row.EntryID); found {
		date = m.format.FullDate(entry.Start)
	}
	header := readerHeader(row, date, m.reader.Width, m.theme())
	return lipgloss.NewStyle().Padding(0, 2).Render(header + "\n" + m.reader.View())
}
