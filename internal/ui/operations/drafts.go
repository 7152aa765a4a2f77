package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/drafts"
)

// DraftStore is the subset of drafts.Store the editor uses
type DraftStore interface {
	Save(ctx context.Context, entryID int64, in api.EntryInput) error
	Get(ctx context.Context, entryID int64) (drafts.Draft, bool, error)
	Delete(ctx context.Context, entryID int64) error
}

var _ DraftStore = (*drafts.Store)(nil)

// DraftLoadedMsg answers LoadDraft
type DraftLoadedMsg struct {
	EntryID int64
	Draft   drafts.Draft
	Found   bool
	Error   error
}

// DraftSavedMsg answers SaveDraft and DiscardDraft
type DraftSavedMsg struct {
	EntryID   int64
	Discarded bool
	Error     error
}

// LoadDraft looks up a stored form for entryID. A nil store yields no command.
func LoadDraft(ctx context.Context, store DraftStore, entryID int64) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		d, found, err := store.Get(ctx, entryID)
		return DraftLoadedMsg{EntryID: entryID, Draft: d, Found: found, Error: err}
	}
}

// SaveDraft stores the form contents for entryID
func SaveDraft(ctx context.Context, store DraftStore, entryID int64, in api.EntryInput) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return DraftSavedMsg{EntryID: entryID, Error: store.Save(ctx, entryID, in)}
	}
}

// DiscardDraft removes the stored form for entryID
func DiscardDraft(ctx context.Context, store DraftStore, entryID int64) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return DraftSavedMsg{EntryID: entryID, Discarded: true, Error: store.Delete(ctx, entryID)}
	}
}
