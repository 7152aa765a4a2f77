package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/voicejournal/internal/feed"
)

// feedTop is the first terminal line of the feed: header, category bar, blank
const feedTop = 3

// rowSpan locates a projection row inside the rendered feed, in lines
type rowSpan struct {
	top    int
	height int
}

func (s rowSpan) contains(line int) bool {
	return line >= s.top && line < s.top+s.height
}

// renderRows renders the projection and records where each row landed
func renderRows(rows []feed.Row, width int, selected, pressed int64, theme StyleTheme) (string, []rowSpan) {
	blocks := make([]string, 0, len(rows))
	spans := make([]rowSpan, 0, len(rows))
	line := 0

	for i, row := range rows {
		block := renderRow(row, width, row.EntryID == selected, row.EntryID == pressed, theme)
		if row.Kind == feed.RowSeparator && i > 0 {
			block = "\n" + block
		}
		h := lipgloss.Height(block)
		spans = append(spans, rowSpan{top: line, height: h})
		blocks = append(blocks, block)
		line += h
	}
	return strings.Join(blocks, "\n"), spans
}

func renderRow(row feed.Row, width int, selected, pressed bool, theme StyleTheme) string {
	switch row.Kind {
	case feed.RowSeparator:
		label := "── " + row.Text + " "
		rule := strings.Repeat("─", max(0, width-lipgloss.Width(label)))
		return theme.SeparatorStyle().Render(label) + lipgloss.NewStyle().Foreground(theme.Surface).Render(rule)

	case feed.RowEntry:
		return renderEntry(row, width, selected, pressed, theme)

	case feed.RowPlaceholder:
		return theme.MutedStyle().Render(centerText(row.Text, width))

	case feed.RowNotice:
		return theme.ErrorStyle().Render(wrapText(row.Text, width))

	case feed.RowSentinel:
		return renderSentinel(row, width, theme)
	}
	return ""
}

func renderEntry(row feed.Row, width int, selected, pressed bool, theme StyleTheme) string {
	style := theme.BubbleStyle(selected)
	if pressed {
		style = theme.PressedStyle()
	}
	inner := max(width-6, 10)

	content := row.Content
	if strings.TrimSpace(content) == "" {
		content = theme.MutedStyle().Render("(leer)")
	} else {
		content = wrapText(content, inner)
	}

	meta := theme.TimeStyle().Render(row.Time)
	if len(row.Tags) > 0 {
		tags := truncateText(strings.Join(row.Tags, " • "), max(inner-lipgloss.Width(row.Time)-2, 1))
		meta += "  " + theme.TagStyle().Render(tags)
	}

	bubble := style.Width(inner + 2).Render(content + "\n" + meta)
	return lipgloss.NewStyle().PaddingLeft(2).Render(bubble)
}

func renderSentinel(row feed.Row, width int, theme StyleTheme) string {
	switch row.Status {
	case feed.StatusFailed:
		return theme.ErrorStyle().Render(row.Text) + theme.MutedStyle().Render("  ·  r erneut versuchen")
	case feed.StatusLoadingFirst, feed.StatusLoadingMore:
		return theme.MutedStyle().Render(centerText(row.Text, width))
	}
	// Idle and exhausted sentinels stay one blank line tall so visibility can be measured
	return " "
}

// renderHeader is the gradient title bar with the selected category and clock
func renderHeader(m Model) string {
	title := " JOURNAL"
	right := m.now().In(m.format.Location).Format("15:04") + " "
	if cat, ok := m.selectedCategory(); ok {
		right = fmt.Sprintf("%s  ◆ %d Einträge  ◆ %s", cat.Name, m.engine.Model().Len(), right)
	}
	spacing := max(2, m.width-lipgloss.Width(title)-lipgloss.Width(right))
	theme := m.theme()
	return RenderWithGradientBackground(title+strings.Repeat(" ", spacing)+right, m.width, theme.GradientStart, theme.GradientEnd)
}

// renderCategoryBar lists categories by orderIndex with the selection highlighted
func renderCategoryBar(m Model) string {
	theme := m.theme()
	if m.loadingCategories {
		return theme.MutedStyle().Render(" Lade Kategorien...")
	}
	if len(m.categories) == 0 {
		return theme.MutedStyle().Render(" Keine Kategorien")
	}

	parts := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		if i == m.selected {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(theme.Accent).
				Bold(true).
				Padding(0, 1).
				Render(c.Name))
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1).Render(c.Name))
	}
	return truncateText(" "+strings.Join(parts, " "), m.width)
}

// renderCategoryError fills the feed area when categories could not be loaded
func renderCategoryError(m Model) string {
	theme := m.theme()
	body := theme.ErrorStyle().Render(wrapText(m.categoryErr, max(m.width-8, 20))) + "\n\n" +
		theme.MutedStyle().Render("r oder :refresh lädt erneut, s öffnet die Einstellungen")
	return lipgloss.Place(m.width, m.feedHeight(), lipgloss.Center, lipgloss.Center, body)
}

// renderStatusBar shows a status message or the short key help
func renderStatusBar(m Model) string {
	theme := m.theme()
	if m.commandMode.IsActive() {
		return m.commandMode.View(theme)
	}

	var text string
	switch {
	case m.statusMessage != "" && m.statusIsError:
		text = theme.ErrorStyle().Render(m.statusMessage)
	case m.statusMessage != "":
		text = theme.SelectedStyle().Render(m.statusMessage)
	default:
		text = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return theme.StatusStyle(m.width).Render(truncateText(text, max(m.width-2, 1)))
}

// RenderList renders the full screen behind any overlay
func RenderList(m Model) string {
	if m.width == 0 {
		return "Lade..."
	}

	var body string
	switch {
	case m.categoryErr != "":
		body = renderCategoryError(m)
	case m.view == viewReader:
		body = lipgloss.NewStyle().Height(m.feedHeight()).MaxHeight(m.feedHeight()).Render(m.readerView())
	default:
		body = m.feedView.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(m),
		renderCategoryBar(m),
		"",
		body,
		renderStatusBar(m),
	)
}
