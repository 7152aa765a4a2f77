package ui

import (
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// wrapText wraps text on word boundaries to width, keeping explicit line breaks
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return strings.TrimRight(wordwrap.String(text, width), "\n")
}

// truncateText shortens s to width cells, ending with an ellipsis
func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// centerText left-pads text so it sits centered in width
func centerText(text string, width int) string {
	pad := (width - len([]rune(text))) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}
