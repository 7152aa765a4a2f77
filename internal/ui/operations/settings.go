package operations

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/config"
)

// SettingsSavedMsg answers SaveSettings
type SettingsSavedMsg struct {
	Config  *config.Config
	Success bool
	Error   error
}

// SaveSettings validates and writes cfg to path. An empty path only validates,
// so the session still picks up the change.
func SaveSettings(path string, cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		var err error
		if path == "" {
			err = cfg.Validate()
		} else {
			err = config.Save(path, cfg)
		}
		if err != nil {
			return SettingsSavedMsg{Error: err}
		}
		return SettingsSavedMsg{Config: cfg, Success: true}
	}
}
