package commands

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFunc is a function that executes a command
type CommandFunc func(args []string) tea.Cmd

// Registry holds all available commands
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry creates a new command registry with built-in commands
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	// Full names only; prefixes resolve when unambiguous
	r.Register("quit", cmdQuit)
	r.Register("refresh", cmdRefresh)
	r.Register("retry", cmdRetry)
	r.Register("help", cmdHelp)
	r.Register("new", cmdNew)
	r.Register("edit", cmdEdit)
	r.Register("category", cmdCategory)
	r.Register("settings", cmdSettings)
	r.Register("copy", cmdCopy)
	r.Register("theme", cmdTheme)

	return r
}

// Register adds a command to the registry
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs a command by name with arguments
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	var matches []string
	var matchedFn CommandFunc
	lowerName := strings.ToLower(name)

	for cmdName, fn := range r.commands {
		if strings.HasPrefix(strings.ToLower(cmdName), lowerName) {
			matches = append(matches, cmdName)
			matchedFn = fn
		}
	}

	if len(matches) == 1 {
		return matchedFn(args)
	}

	if len(matches) > 1 {
		sort.Strings(matches)
		return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
	}

	return showError(fmt.Sprintf("Unknown command: %s", name))
}

// GetCommands returns all registered command names, sorted
func (r *Registry) GetCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built-in command implementations

func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// cmdRefresh reloads categories and the selected feed
func cmdRefresh(args []string) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// cmdRetry re-requests the page that failed
func cmdRetry(args []string) tea.Cmd {
	return func() tea.Msg {
		return RetryMsg{}
	}
}

func cmdHelp(args []string) tea.Cmd {
	return func() tea.Msg {
		return HelpMsg{}
	}
}

// cmdNew opens the editor for a new entry, optionally prefilled with text
func cmdNew(args []string) tea.Cmd {
	return func() tea.Msg {
		return NewEntryMsg{Content: strings.Join(args, " ")}
	}
}

// cmdEdit opens the editor for the selected entry
func cmdEdit(args []string) tea.Cmd {
	return func() tea.Msg {
		return EditEntryMsg{}
	}
}

// cmdCategory selects a category by name (case-insensitive prefix) or id
func cmdCategory(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "category: name required"}
		}
		return CategoryMsg{Name: strings.Join(args, " ")}
	}
}

func cmdSettings(args []string) tea.Cmd {
	return func() tea.Msg {
		return SettingsMsg{}
	}
}

// cmdCopy copies the selected entry: "content" (default) or "all" with date and tags
func cmdCopy(args []string) tea.Cmd {
	return func() tea.Msg {
		target := "content"
		if len(args) > 0 {
			target = args[0]
		}
		if target != "content" && target != "all" {
			return ErrorMsg{Message: fmt.Sprintf("copy: unknown target '%s' (available: content, all)", target)}
		}
		return CopyMsg{Target: target}
	}
}

func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		return ThemeMsg{}
	}
}

// showError returns a command that shows an error message
func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: msg}
	}
}

// Message types for commands

// RefreshMsg signals that categories and the feed should be reloaded
type RefreshMsg struct{}

// RetryMsg signals that the failed page should be requested again
type RetryMsg struct{}

// ErrorMsg contains an error message to display
type ErrorMsg struct {
	Message string
}

// HelpMsg signals to show the help modal
type HelpMsg struct{}

// NewEntryMsg signals to open the editor for a new entry
type NewEntryMsg struct {
	Content string
}

// EditEntryMsg signals to open the editor for the selected entry
type EditEntryMsg struct{}

// CategoryMsg signals to select a category
type CategoryMsg struct {
	Name string
}

// SettingsMsg signals to open the settings overlay
type SettingsMsg struct{}

// CopyMsg signals to copy the selected entry to the clipboard
type CopyMsg struct {
	Target string // "content" (default) or "all"
}

// ThemeMsg signals to cycle to the next theme
type ThemeMsg struct{}
