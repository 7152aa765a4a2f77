package ui

import (
	"testing"

	"github.com/nickpending/voicejournal/internal/config"
)

func TestSettingsCandidate(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		pageSize string
		wantURL  string
		wantSize int
		wantErr  bool
	}{
		{name: "host and port", host: "journal.lan:9000", pageSize: "10", wantURL: "http://journal.lan:9000", wantSize: 10},
		{name: "full url", host: "https://example.org:8443/", pageSize: "5", wantURL: "https://example.org:8443", wantSize: 5},
		{name: "ip address", host: "192.168.1.20", pageSize: " 7 ", wantURL: "http://192.168.1.20:8080", wantSize: 7},
		{name: "zero page size", host: "localhost", pageSize: "0", wantErr: true},
		{name: "text page size", host: "localhost", pageSize: "viele", wantErr: true},
		{name: "bad port", host: "localhost:abc", pageSize: "5", wantErr: true},
		{name: "empty host", host: "", pageSize: "5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettingsModal()
			s.Open(config.Default())
			s.host.SetValue(tt.host)
			s.pageSize.SetValue(tt.pageSize)

			cfg, err := s.Candidate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Candidate: %v", err)
			}
			if cfg.BaseURL() != tt.wantURL {
				t.Errorf("Expected %s, got %s", tt.wantURL, cfg.BaseURL())
			}
			if cfg.Feed.PageSize != tt.wantSize {
				t.Errorf("Expected page size %d, got %d", tt.wantSize, cfg.Feed.PageSize)
			}
		})
	}
}

func TestSettingsEditsACopy(t *testing.T) {
	base := config.Default()
	s := NewSettingsModal()
	s.Open(base)
	s.pageSize.SetValue("42")

	if _, err := s.Candidate(); err != nil {
		t.Fatalf("Candidate: %v", err)
	}
	if base.Feed.PageSize != config.DefaultPageSize {
		t.Errorf("Expected the opened config untouched, got page size %d", base.Feed.PageSize)
	}
}

func TestSettingsSubmit(t *testing.T) {
	s := NewSettingsModal()
	s.Open(config.Default())

	s, cmd := s.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg, ok := cmd().(settingsSubmitMsg)
	if !ok || msg.Config == nil {
		t.Fatalf("Expected settingsSubmitMsg, got %#v", msg)
	}

	s.pageSize.SetValue("-1")
	s, cmd = s.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("Expected no submit for an invalid form")
	}
	if s.errorMsg == "" {
		t.Error("Expected form error")
	}

	s, _ = s.Update(keyMsg("esc"))
	if s.IsVisible() {
		t.Error("Expected esc to close settings")
	}
}
