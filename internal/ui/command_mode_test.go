package ui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/commands"
)

func TestParseCommandWithQuotes(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "refresh", want: []string{"refresh"}},
		{line: "category  Arbeit", want: []string{"category", "Arbeit"}},
		{line: `category "Meine Ideen"`, want: []string{"category", "Meine Ideen"}},
		{line: `new sagte \"hallo\"`, want: []string{"new", "sagte", `"hallo"`}},
		{line: `new ""`, want: []string{"new", ""}},
		{line: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := parseCommandWithQuotes(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCommandWithQuotes(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestCommandCompletion(t *testing.T) {
	c := NewCommandMode()
	c.SetCategories([]string{"Tagebuch", "Arbeit", "Arbeit Zuhause"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "re", want: []string{"refresh", "retry"}},
		{prefix: "cat", want: []string{"category"}},
		{prefix: "category ar", want: []string{"category Arbeit", `category "Arbeit Zuhause"`}},
		{prefix: "category t", want: []string{"category Tagebuch"}},
		{prefix: "xyz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCommandModeTabCycles(t *testing.T) {
	c := NewCommandMode()
	c.Show()
	c.input.SetValue("re")

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != "refresh" {
		t.Fatalf("Expected refresh, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != "retry" {
		t.Errorf("Expected retry, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != "refresh" {
		t.Errorf("Expected wrap to refresh, got %q", c.input.Value())
	}
}

func TestCommandModeExecute(t *testing.T) {
	c := NewCommandMode()
	c.Show()
	c.input.SetValue("copy all")

	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.IsActive() {
		t.Error("Expected command mode to close on enter")
	}
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if msg, ok := cmd().(commands.CopyMsg); !ok || msg.Target != "all" {
		t.Errorf("Expected CopyMsg{all}, got %#v", msg)
	}
	if len(c.history) != 1 || c.history[0] != "copy all" {
		t.Errorf("Expected history entry, got %v", c.history)
	}
}

func TestCommandModeHistory(t *testing.T) {
	c := NewCommandMode()
	for _, line := range []string{"refresh", "theme"} {
		c.Show()
		c.input.SetValue(line)
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	c.Show()
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.input.Value() != "theme" {
		t.Errorf("Expected last command, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.input.Value() != "refresh" {
		t.Errorf("Expected first command, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	if c.input.Value() != "" {
		t.Errorf("Expected empty line past the newest entry, got %q", c.input.Value())
	}
}

func TestCommandModeError(t *testing.T) {
	c := NewCommandMode()
	cmd := c.SetError("Unknown command: foo")
	if cmd == nil || !c.IsActive() {
		t.Fatal("Expected error to activate command mode with a timer")
	}
	if got := c.View(InkTheme); got == "" {
		t.Error("Expected error rendered")
	}
	c, _ = c.Update(clearErrorMsg{})
	if c.IsActive() {
		t.Error("Expected timer to clear the error")
	}
}
