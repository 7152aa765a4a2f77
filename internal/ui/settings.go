package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/config"
)

// settingsSubmitMsg carries a validated configuration to persist
type settingsSubmitMsg struct {
	Config *config.Config
}

// SettingsModal edits the backend host and the page size
type SettingsModal struct {
	Modal
	host     textinput.Model
	pageSize textinput.Model
	focus    int
	errorMsg string
	base     config.Config
}

// NewSettingsModal creates a hidden settings form
func NewSettingsModal() SettingsModal {
	host := textinput.New()
	host.Placeholder = "http://localhost:8080"
	host.CharLimit = 255
	host.Prompt = ""

	size := textinput.New()
	size.Placeholder = strconv.Itoa(config.DefaultPageSize)
	size.CharLimit = 6
	size.Prompt = ""

	return SettingsModal{
		Modal:    NewModal("EINSTELLUNGEN", 50, 10),
		host:     host,
		pageSize: size,
	}
}

// SetSize keeps the form small, shrinking only on tiny terminals
func (s *SettingsModal) SetSize(width, height int) {
	s.width = min(50, max(width-6, 20))
	s.height = min(10, max(height-4, 6))
	s.host.Width = s.width - 14
	s.pageSize.Width = 8
}

// Open fills the form from cfg; the form edits a copy
func (s *SettingsModal) Open(cfg *config.Config) {
	s.base = *cfg
	s.host.SetValue(cfg.BaseURL())
	s.pageSize.SetValue(strconv.Itoa(cfg.Feed.PageSize))
	s.errorMsg = ""
	s.setFocus(0)
	s.Show()
}

// SetError shows a save failure
func (s *SettingsModal) SetError(msg string) {
	s.errorMsg = msg
}

func (s *SettingsModal) setFocus(i int) {
	s.focus = i
	if i == 0 {
		s.host.Focus()
		s.pageSize.Blur()
	} else {
		s.pageSize.Focus()
		s.host.Blur()
	}
}

// Candidate applies the form to a copy of the opened configuration
func (s SettingsModal) Candidate() (*config.Config, error) {
	cfg := s.base
	if err := cfg.SetHost(s.host.Value()); err != nil {
		return nil, fmt.Errorf("Host ungültig: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.pageSize.Value()))
	if err != nil || n <= 0 {
		return nil, errors.New("Seitengröße muss eine positive Zahl sein")
	}
	cfg.Feed.PageSize = n
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update handles form input
func (s SettingsModal) Update(msg tea.Msg) (SettingsModal, tea.Cmd) {
	if !s.visible {
		return s, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			s.Hide()
			return s, nil
		case "tab", "shift+tab", "up", "down":
			s.setFocus(1 - s.focus)
			return s, nil
		case "enter", "ctrl+s":
			cfg, err := s.Candidate()
			if err != nil {
				s.errorMsg = err.Error()
				return s, nil
			}
			s.errorMsg = ""
			return s, func() tea.Msg { return settingsSubmitMsg{Config: cfg} }
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.host, cmd = s.host.Update(msg)
	} else {
		s.pageSize, cmd = s.pageSize.Update(msg)
	}
	return s, cmd
}

// View renders the form inside the modal frame
func (s SettingsModal) View(theme StyleTheme) string {
	if !s.visible {
		return ""
	}

	label := func(i int, text string) string {
		if s.focus == i {
			return theme.SelectedStyle().Render("▸ " + text)
		}
		return theme.MutedStyle().Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(label(0, "Host       "))
	b.WriteString(s.host.View())
	b.WriteString("\n")
	b.WriteString(label(1, "Seitengröße"))
	b.WriteString(" ")
	b.WriteString(s.pageSize.View())
	b.WriteString("\n\n")
	if s.errorMsg != "" {
		b.WriteString(theme.ErrorStyle().Render(wrapText(s.errorMsg, s.width-4)))
		b.WriteString("\n")
	}
	b.WriteString(theme.MutedStyle().Render("enter speichern  ·  tab wechseln  ·  esc abbrechen"))

	return s.Frame(b.String(), theme)
}
