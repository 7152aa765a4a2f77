package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list view bindings; it also feeds the status bar and help
type keyMap struct {
	Down         key.Binding
	Up           key.Binding
	Top          key.Binding
	Bottom       key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Read         key.Binding
	New          key.Binding
	Edit         key.Binding
	Retry        key.Binding
	Settings     key.Binding
	Command      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next entry")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous entry")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		NextCategory: key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab", "previous category")),
		Read:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		New:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new entry")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit entry")),
		Retry:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Settings:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Command:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.NextCategory, k.Read, k.New, k.Edit, k.Command, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Top, k.Bottom},
		{k.NextCategory, k.PrevCategory, k.Retry},
		{k.Read, k.New, k.Edit},
		{k.Settings, k.Command, k.Help, k.Quit},
	}
}
