package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

var errNothingToCopy = errors.New("nothing to copy")

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard
func CopyToClipboard(text string) error {
	if strings.TrimSpace(text) == "" {
		return errNothingToCopy
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
