package operations

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/config"
	"github.com/nickpending/voicejournal/internal/drafts"
)

func TestDraftCommandsRoundTrip(t *testing.T) {
	store, err := drafts.Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	in := api.EntryInput{Content: "halb fertig", Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), CategoryIDs: []int64{1}}

	saved := SaveDraft(ctx, store, 7, in)().(DraftSavedMsg)
	if saved.Error != nil || saved.Discarded {
		t.Fatalf("unexpected save result: %+v", saved)
	}

	loaded := LoadDraft(ctx, store, 7)().(DraftLoadedMsg)
	if !loaded.Found || loaded.Draft.Input.Content != "halb fertig" {
		t.Fatalf("expected stored draft, got %+v", loaded)
	}

	discarded := DiscardDraft(ctx, store, 7)().(DraftSavedMsg)
	if discarded.Error != nil || !discarded.Discarded {
		t.Fatalf("unexpected discard result: %+v", discarded)
	}
	if again := LoadDraft(ctx, store, 7)().(DraftLoadedMsg); again.Found {
		t.Error("expected draft to be gone")
	}
}

func TestDraftCommandsWithoutStore(t *testing.T) {
	ctx := context.Background()
	if LoadDraft(ctx, nil, 0) != nil || SaveDraft(ctx, nil, 0, api.EntryInput{}) != nil || DiscardDraft(ctx, nil, 0) != nil {
		t.Error("expected no commands without a store")
	}
}

func TestSaveSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicejournal", "config.toml")
	cfg := config.Default()
	cfg.Feed.PageSize = 8

	msg := SaveSettings(path, cfg)().(SettingsSavedMsg)
	if !msg.Success {
		t.Fatalf("expected success, got %v", msg.Error)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Feed.PageSize != 8 {
		t.Errorf("expected page size 8, got %d", loaded.Feed.PageSize)
	}

	bad := config.Default()
	bad.API.Port = 0
	if msg := SaveSettings(path, bad)().(SettingsSavedMsg); msg.Success || msg.Error == nil {
		t.Errorf("expected invalid config to be rejected, got %+v", msg)
	}

	if msg := SaveSettings("", cfg)().(SettingsSavedMsg); !msg.Success {
		t.Errorf("expected validation-only save to succeed, got %v", msg.Error)
	}
}
