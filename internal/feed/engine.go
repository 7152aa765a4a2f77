package feed

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/nickpending/voicejournal/internal/api"
)

const (
	DefaultPageSize        = 5
	DefaultShowAllPageSize = 10000
)

// SentinelStatus drives the text of the always-last sentinel row
type SentinelStatus int

const (
	StatusIdle SentinelStatus = iota
	StatusLoadingFirst
	StatusLoadingMore
	StatusFailed
	StatusExhausted
)

// Text returns the sentinel label for the status
func (s SentinelStatus) Text() string {
	switch s {
	case StatusLoadingFirst:
		return "Lade Einträge..."
	case StatusLoadingMore:
		return "Lade mehr..."
	case StatusFailed:
		return "Fehler beim Laden"
	default:
		return ""
	}
}

// State is the Feed State of the selected category
type State struct {
	Category   api.Category
	Generation uint64
	Cursor     int
	PageSize   int
	HasMore    bool
	Fetching   bool
}

// PageRequest is one issued page fetch, tagged with the Feed State it belongs to
type PageRequest struct {
	Generation uint64
	CategoryID int64
	Page       int
	PageSize   int
}

// PageResult is the settled outcome of a PageRequest
type PageResult struct {
	Request PageRequest
	Entries []api.Entry
	Err     error
}

// Run performs the fetch. It touches nothing but the request itself, so it
// may run off the goroutine that owns the Engine.
func (r PageRequest) Run(ctx context.Context, remote Remote) PageResult {
	entries, err := remote.ListEntries(ctx, r.CategoryID, r.Page, r.PageSize)
	return PageResult{Request: r, Entries: entries, Err: err}
}

// Outcome describes an applied page
type Outcome struct {
	Page    int
	Added   int
	HasMore bool
}

// Options configures an Engine
type Options struct {
	PageSize        int
	ShowAllPageSize int
	Format          DateFormatter
	Logger          *log.Logger
}

// Engine owns the single active Feed State and its model. All methods must
// be called from one goroutine; only PageRequest.Run and Mutation.Run may
// run elsewhere.
type Engine struct {
	pageSize        int
	showAllPageSize int
	logger          *log.Logger

	state      *State
	generation uint64
	model      *Model
	names      map[int64]string
	lastErr    error
}

// NewEngine returns an engine with no category selected
func NewEngine(opts Options) *Engine {
	e := &Engine{
		showAllPageSize: opts.ShowAllPageSize,
		logger:          opts.Logger,
		model:           NewModel(opts.Format),
		names:           make(map[int64]string),
	}
	if e.showAllPageSize <= 0 {
		e.showAllPageSize = DefaultShowAllPageSize
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.SetPageSize(opts.PageSize)
	return e
}

// SetPageSize changes the configured page size used by the next Reset.
// Non-positive sizes fall back to DefaultPageSize.
func (e *Engine) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	e.pageSize = n
}

// SetCategories records category names for entry tags
func (e *Engine) SetCategories(categories []api.Category) {
	e.names = make(map[int64]string, len(categories))
	for _, c := range categories {
		e.names[c.ID] = c.Name
	}
}

// Reset replaces the Feed State for cat: cursor 1, hasMore, empty model.
// Any request still in flight for the previous state becomes stale.
func (e *Engine) Reset(cat api.Category) {
	e.generation++
	size := e.pageSize
	if cat.ShowAll {
		size = e.showAllPageSize
	}
	e.state = &State{
		Category:   cat,
		Generation: e.generation,
		Cursor:     1,
		PageSize:   size,
		HasMore:    true,
	}
	e.model.Clear()
	e.lastErr = nil
	e.logger.Debug("feed reset", "category", cat.ID, "generation", e.generation, "page_size", size)
}

// Clear drops the Feed State; nothing is selected and no page can be requested
func (e *Engine) Clear() {
	e.generation++
	e.state = nil
	e.model.Clear()
	e.lastErr = nil
}

// State returns a copy of the active Feed State
func (e *Engine) State() (State, bool) {
	if e.state == nil {
		return State{}, false
	}
	return *e.state, true
}

// Model exposes the date-grouped model of the active Feed State
func (e *Engine) Model() *Model {
	return e.model
}

// Err returns the last fetch failure of the active Feed State, if any
func (e *Engine) Err() error {
	return e.lastErr
}

// RequestPage issues the next page when a category is selected, more data
// exists and nothing is in flight. Otherwise it does nothing and returns false.
func (e *Engine) RequestPage() (PageRequest, bool) {
	s := e.state
	if s == nil || !s.HasMore || s.Fetching {
		return PageRequest{}, false
	}
	s.Fetching = true
	e.lastErr = nil

	req := PageRequest{
		Generation: s.Generation,
		CategoryID: s.Category.ID,
		Page:       s.Cursor,
		PageSize:   s.PageSize,
	}
	e.logger.Debug("page requested", "category", req.CategoryID, "page", req.Page, "size", req.PageSize)
	return req, true
}

// ApplyPage settles a request. Results for a replaced Feed State return
// ErrStale and change nothing. Failures clear the in-flight flag and return
// a *FetchError with hasMore and the cursor untouched.
func (e *Engine) ApplyPage(res PageResult) (Outcome, error) {
	s := e.state
	if s == nil || res.Request.Generation != s.Generation {
		e.logger.Debug("stale page discarded", "category", res.Request.CategoryID, "page", res.Request.Page)
		return Outcome{}, ErrStale
	}
	s.Fetching = false

	if res.Err != nil {
		e.lastErr = &FetchError{Op: "load entries", Err: res.Err}
		e.logger.Warn("page fetch failed", "category", s.Category.ID, "page", res.Request.Page, "err", res.Err)
		return Outcome{Page: res.Request.Page, HasMore: s.HasMore}, e.lastErr
	}

	added := e.model.MergePage(res.Entries, res.Request.Page > 1)
	s.HasMore = len(res.Entries) == res.Request.PageSize
	s.Cursor++

	e.logger.Debug("page applied",
		"category", s.Category.ID,
		"page", res.Request.Page,
		"received", len(res.Entries),
		"has_more", s.HasMore,
	)
	return Outcome{Page: res.Request.Page, Added: added, HasMore: s.HasMore}, nil
}

// LoadNext requests, fetches and applies one page synchronously.
// It returns false when the guard did not allow a request.
func (e *Engine) LoadNext(ctx context.Context, remote Remote) (Outcome, bool, error) {
	req, ok := e.RequestPage()
	if !ok {
		return Outcome{}, false, nil
	}
	out, err := e.ApplyPage(req.Run(ctx, remote))
	return out, true, err
}

// Status reports what the sentinel row shows
func (e *Engine) Status() SentinelStatus {
	s := e.state
	switch {
	case s == nil:
		return StatusIdle
	case s.Fetching && s.Cursor == 1:
		return StatusLoadingFirst
	case s.Fetching:
		return StatusLoadingMore
	case e.lastErr != nil:
		return StatusFailed
	case !s.HasMore:
		return StatusExhausted
	default:
		return StatusIdle
	}
}

// Rows returns the rendered projection. While a category is selected the
// sentinel row is always last. With nothing selected the projection is empty.
func (e *Engine) Rows() []Row {
	s := e.state
	if s == nil {
		return nil
	}

	var rows []Row
	if e.lastErr != nil && s.Cursor == 1 {
		rows = append(rows, Row{Kind: RowNotice, Text: NoticeText})
	} else {
		rows = e.model.Rows(s.Category.ID, e.names)
	}

	status := e.Status()
	return append(rows, Row{Kind: RowSentinel, Text: status.Text(), Status: status})
}

// IsStale reports whether err marks a discarded result
func IsStale(err error) bool {
	return errors.Is(err, ErrStale)
}

// Reload replaces the Feed State with a fresh one for the same category.
// It returns false when no category is selected.
func (e *Engine) Reload() bool {
	if e.state == nil {
		return false
	}
	e.Reset(e.state.Category)
	return true
}
