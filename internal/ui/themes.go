package ui

import (
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// StyleTheme is the color scheme of the journal TUI
type StyleTheme struct {
	Name    string
	Accent  lipgloss.Color // Selection, headers, active category
	Tag     lipgloss.Color // Secondary category tags
	Alert   lipgloss.Color // Errors and the failed sentinel
	Success lipgloss.Color // Saved, loaded
	Time    lipgloss.Color // Entry time ranges
	Muted   lipgloss.Color // Separators, placeholder, hints
	Surface lipgloss.Color // Status bar and bubble borders
	Text    lipgloss.Color // Entry content

	GradientStart string
	GradientEnd   string
}

// InkTheme is the default dark scheme
var InkTheme = StyleTheme{
	Name:          "ink",
	Accent:        lipgloss.Color("#00D9FF"),
	Tag:           lipgloss.Color("#E6CCFF"),
	Alert:         lipgloss.Color("#FF0066"),
	Success:       lipgloss.Color("#00FF88"),
	Time:          lipgloss.Color("#FF8800"),
	Muted:         lipgloss.Color("#666666"),
	Surface:       lipgloss.Color("#333333"),
	Text:          lipgloss.Color("#EEEEEE"),
	GradientStart: "#00D9FF",
	GradientEnd:   "#9F4DFF",
}

// DuskTheme is a warm scheme in Monokai Pro tones
var DuskTheme = StyleTheme{
	Name:          "dusk",
	Accent:        lipgloss.Color("#78DCE8"),
	Tag:           lipgloss.Color("#AB9DF2"),
	Alert:         lipgloss.Color("#FF6188"),
	Success:       lipgloss.Color("#A9DC76"),
	Time:          lipgloss.Color("#FC9867"),
	Muted:         lipgloss.Color("#727072"),
	Surface:       lipgloss.Color("#403E41"),
	Text:          lipgloss.Color("#FCFCFA"),
	GradientStart: "#FC9867",
	GradientEnd:   "#FF6188",
}

// PaperTheme uses softer slate tones
var PaperTheme = StyleTheme{
	Name:          "paper",
	Accent:        lipgloss.Color("#06B6D4"),
	Tag:           lipgloss.Color("#8B5CF6"),
	Alert:         lipgloss.Color("#F43F5E"),
	Success:       lipgloss.Color("#22C55E"),
	Time:          lipgloss.Color("#FB923C"),
	Muted:         lipgloss.Color("#64748B"),
	Surface:       lipgloss.Color("#475569"),
	Text:          lipgloss.Color("#F1F5F9"),
	GradientStart: "#06B6D4",
	GradientEnd:   "#8B5CF6",
}

// AvailableThemes is the :theme cycle order
var AvailableThemes = []StyleTheme{
	InkTheme,
	DuskTheme,
	PaperTheme,
}

func (t StyleTheme) SeparatorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
}

func (t StyleTheme) BubbleStyle(selected bool) lipgloss.Style {
	border := t.Surface
	if selected {
		border = t.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(t.Text).
		Padding(0, 1)
}

func (t StyleTheme) PressedStyle() lipgloss.Style {
	return t.BubbleStyle(true).BorderForeground(t.Time)
}

func (t StyleTheme) TagStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Tag)
}

func (t StyleTheme) TimeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Time)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Muted).
		Italic(true)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Alert).
		Bold(true)
}

func (t StyleTheme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Success)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
}

func (t StyleTheme) StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.Surface).
		Foreground(t.Muted).
		Width(width).
		Padding(0, 1)
}

// ToGlamourStyle maps the theme onto glamour's dark style for the reader
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DarkStyleConfig

	style.Document.Margin = uintPtr(0)
	style.Document.StylePrimitive.Color = stringPtr(string(t.Text))

	style.Heading.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.Heading.StylePrimitive.Bold = boolPtr(true)
	for _, h := range []*ansi.StyleBlock{&style.H1, &style.H2, &style.H3, &style.H4, &style.H5, &style.H6} {
		h.Prefix = "▸ "
		h.Suffix = ""
		h.Format = ""
	}
	style.H1.StylePrimitive.BackgroundColor = nil
	style.H1.StylePrimitive.Color = stringPtr(string(t.Accent))

	style.Link.Color = stringPtr(string(t.Tag))
	style.LinkText.Color = stringPtr(string(t.Tag))
	style.Code.Color = stringPtr(string(t.Success))
	style.CodeBlock.StylePrimitive.Color = stringPtr(string(t.Success))
	style.Emph.Color = stringPtr(string(t.Time))

	style.Item.BlockPrefix = "• "
	style.Task.Ticked = "[✓] "
	style.Task.Unticked = "[ ] "

	style.BlockQuote.StylePrimitive.Color = stringPtr(string(t.Muted))
	style.BlockQuote.StylePrimitive.Italic = boolPtr(true)

	return style
}

func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderWithGradientBackground pads or cuts text to width and paints each
// cell with a background blended from startColor to endColor
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) < width {
		runes = append(runes, []rune(strings.Repeat(" ", width-len(runes)))...)
	}
	runes = runes[:width]

	var b strings.Builder
	for i, r := range runes {
		bg := InterpolateColor(startColor, endColor, float64(i)/float64(max(width-1, 1)))
		b.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Render(string(r)))
	}
	return b.String()
}

// InterpolateColor blends two hex colors; position is clamped to [0, 1].
// An unparseable color yields startColor.
func InterpolateColor(startColor, endColor string, position float64) string {
	from, err := colorful.Hex(startColor)
	if err != nil {
		return startColor
	}
	to, err := colorful.Hex(endColor)
	if err != nil {
		return startColor
	}
	position = min(max(position, 0), 1)
	return strings.ToUpper(from.BlendRgb(to, position).Clamped().Hex())
}

// RenderGradientText colors each rune of text along the gradient
func RenderGradientText(text string, startColor, endColor string) string {
	runes := []rune(text)
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(startColor)).Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		color := InterpolateColor(startColor, endColor, float64(i)/float64(len(runes)-1))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}
