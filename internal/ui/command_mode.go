package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/voicejournal/internal/commands"
)

const commandHistoryLimit = 100

// CommandMode is the vim-style ':' command line
type CommandMode struct {
	active         bool
	input          textinput.Model
	history        []string
	historyIdx     int
	suggestions    []string
	suggestionIdx  int
	completionBase string
	registry       *commands.Registry
	categories     []string
	width          int
	error          string
}

// clearErrorMsg hides a command error after a delay
type clearErrorMsg struct{}

// NewCommandMode creates an inactive command line
func NewCommandMode() CommandMode {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	ti.Prompt = ":"

	return CommandMode{
		input:      ti,
		history:    make([]string, 0, commandHistoryLimit),
		historyIdx: -1,
		registry:   commands.NewRegistry(),
		width:      80,
	}
}

// SetWidth fits the input to the terminal
func (c *CommandMode) SetWidth(width int) {
	c.width = width
	c.input.Width = width - 4
}

// SetCategories provides names for ":category" completion
func (c *CommandMode) SetCategories(names []string) {
	c.categories = append(c.categories[:0], names...)
}

// Show activates command mode with an empty line
func (c *CommandMode) Show() {
	c.active = true
	c.input.Focus()
	c.input.SetValue("")
	c.historyIdx = len(c.history)
	c.error = ""
	c.resetCompletion()
}

// Hide deactivates command mode
func (c *CommandMode) Hide() {
	c.active = false
	c.input.Blur()
	c.input.SetValue("")
	c.historyIdx = -1
	c.error = ""
	c.resetCompletion()
}

func (c *CommandMode) resetCompletion() {
	c.suggestions = nil
	c.suggestionIdx = 0
	c.completionBase = ""
}

func (c CommandMode) IsActive() bool {
	return c.active
}

// SetError shows msg on the command line until a key is pressed or the delay passes
func (c *CommandMode) SetError(msg string) tea.Cmd {
	c.error = msg
	c.active = true
	c.input.Blur()
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update handles input while active
func (c *CommandMode) Update(msg tea.Msg) (CommandMode, tea.Cmd) {
	if !c.active {
		return *c, nil
	}

	switch msg := msg.(type) {
	case clearErrorMsg:
		if c.error != "" {
			c.Hide()
		}
		return *c, nil

	case tea.KeyMsg:
		if c.error != "" {
			c.Hide()
			return *c, nil
		}

		switch msg.Type {
		case tea.KeyEscape, tea.KeyCtrlC:
			c.Hide()
			return *c, nil

		case tea.KeyEnter:
			line := strings.TrimSpace(c.input.Value())
			c.Hide()
			if line == "" {
				return *c, nil
			}
			c.addToHistory(line)

			parts := parseCommandWithQuotes(line)
			if len(parts) == 0 {
				return *c, nil
			}
			return *c, c.registry.Execute(parts[0], parts[1:])

		case tea.KeyUp:
			if c.historyIdx > 0 {
				c.historyIdx--
				c.input.SetValue(c.history[c.historyIdx])
				c.input.CursorEnd()
			}
			return *c, nil

		case tea.KeyDown:
			switch {
			case c.historyIdx < len(c.history)-1:
				c.historyIdx++
				c.input.SetValue(c.history[c.historyIdx])
				c.input.CursorEnd()
			case c.historyIdx == len(c.history)-1:
				c.historyIdx = len(c.history)
				c.input.SetValue("")
			}
			return *c, nil

		case tea.KeyTab:
			c.cycleCompletion()
			return *c, nil

		case tea.KeyBackspace:
			if c.input.Value() == "" {
				c.Hide()
				return *c, nil
			}
		}
	}

	var cmd tea.Cmd
	before := c.input.Value()
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.resetCompletion()
	}
	return *c, cmd
}

// cycleCompletion replaces the line with the next completion of what the
// user typed, wrapping around
func (c *CommandMode) cycleCompletion() {
	current := c.input.Value()
	if current == "" {
		return
	}

	cycling := len(c.suggestions) > 0 && current == c.suggestions[(c.suggestionIdx+len(c.suggestions)-1)%len(c.suggestions)]
	if !cycling {
		c.completionBase = current
		c.suggestions = c.Complete(current)
		c.suggestionIdx = 0
		if len(c.suggestions) == 0 {
			return
		}
	}

	c.input.SetValue(c.suggestions[c.suggestionIdx])
	c.input.CursorEnd()
	c.suggestionIdx = (c.suggestionIdx + 1) % len(c.suggestions)
}

// View renders the command line
func (c CommandMode) View(theme StyleTheme) string {
	if !c.active {
		return ""
	}

	if c.error != "" {
		return lipgloss.NewStyle().
			Foreground(theme.Alert).
			Width(c.width).
			Padding(0, 1).
			Render(c.error)
	}

	content := c.input.View()
	if len(c.suggestions) > 1 {
		pos := c.suggestionIdx
		if pos == 0 {
			pos = len(c.suggestions)
		}
		content += fmt.Sprintf(" [%d/%d]", pos, len(c.suggestions))
	}

	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(c.width).
		Padding(0, 1).
		Render(content)
}

// Complete returns completions for prefix. After "category " it completes
// category names, otherwise command names.
func (c *CommandMode) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)

	if name, ok := strings.CutPrefix(lower, "category "); ok {
		name = strings.TrimSpace(name)
		var matches []string
		for _, cat := range c.categories {
			if strings.HasPrefix(strings.ToLower(cat), name) {
				matches = append(matches, "category "+quoteArg(cat))
			}
		}
		return matches
	}

	if c.registry == nil {
		return nil
	}
	var matches []string
	for _, name := range c.registry.GetCommands() {
		if strings.HasPrefix(name, lower) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, " \"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

func (c *CommandMode) addToHistory(line string) {
	if len(c.history) > 0 && c.history[len(c.history)-1] == line {
		return
	}
	if len(c.history) >= commandHistoryLimit {
		c.history = c.history[1:]
	}
	c.history = append(c.history, line)
}

// parseCommandWithQuotes splits a command line on spaces, honoring double
// quotes and backslash escapes
func parseCommandWithQuotes(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		escaped bool
		started bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			started = true
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
