package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/feed"
)

// PageLoadedMsg carries a settled page fetch back to the Update loop
type PageLoadedMsg struct {
	Result feed.PageResult
}

// EntryMutatedMsg carries a settled create, update or delete
type EntryMutatedMsg struct {
	Result feed.MutationResult
}

// LoadPage fetches one page off the Update goroutine. The engine applies
// the result when the message arrives.
func LoadPage(ctx context.Context, remote feed.Remote, req feed.PageRequest) tea.Cmd {
	return func() tea.Msg {
		return PageLoadedMsg{Result: req.Run(ctx, remote)}
	}
}

// Mutate sends a prepared mutation to the backend
func Mutate(ctx context.Context, remote feed.Remote, m feed.Mutation) tea.Cmd {
	return func() tea.Msg {
		return EntryMutatedMsg{Result: m.Run(ctx, remote)}
	}
}
