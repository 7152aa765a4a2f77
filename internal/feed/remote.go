package feed

import (
	"context"

	"github.com/nickpending/voicejournal/internal/api"
)

// Remote is the subset of the journal API the engine depends on.
// *api.Client satisfies it; tests substitute in-memory fakes.
type Remote interface {
	ListEntries(ctx context.Context, categoryID int64, page, pageSize int) ([]api.Entry, error)
	CreateEntry(ctx context.Context, in api.EntryInput) (api.Entry, error)
	UpdateEntry(ctx context.Context, prior api.Entry, in api.EntryInput) (api.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

var _ Remote = (*api.Client)(nil)
