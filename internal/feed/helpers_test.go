package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
)

var errBackendDown = errors.New("backend down")

// at parses "2006-01-02 15:04" in UTC
func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return ts
}

func entryAt(t *testing.T, id int64, when string, categories ...int64) api.Entry {
	t.Helper()
	if len(categories) == 0 {
		categories = []int64{1}
	}
	return api.Entry{ID: id, Content: "entry", Start: at(t, when), CategoryIDs: categories}
}

func newTestEngine(pageSize int) *Engine {
	return NewEngine(Options{
		PageSize: pageSize,
		Format:   NewDateFormatter("de", time.UTC),
	})
}

// fakeRemote serves pages from an in-memory, start-descending entry list
type fakeRemote struct {
	mu        sync.Mutex
	entries   map[int64][]api.Entry
	listCalls int
	failNext  error
	nextID    int64
	created   []api.EntryInput
	updated   []api.Entry
	deleted   []int64
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{entries: make(map[int64][]api.Entry), nextID: 1000}
}

func (f *fakeRemote) add(categoryID int64, entries ...api.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := append(f.entries[categoryID], entries...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Start.After(list[j].Start) })
	f.entries[categoryID] = list
}

func (f *fakeRemote) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRemote) ListEntries(_ context.Context, categoryID int64, page, pageSize int) ([]api.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	all := f.entries[categoryID]
	if pageSize <= 0 {
		return append([]api.Entry(nil), all...), nil
	}
	from := (page - 1) * pageSize
	if from >= len(all) {
		return []api.Entry{}, nil
	}
	to := min(from+pageSize, len(all))
	return append([]api.Entry(nil), all[from:to]...), nil
}

func (f *fakeRemote) CreateEntry(_ context.Context, in api.EntryInput) (api.Entry, error) {
	f.mu.Lock()
	if err := f.takeFailure(); err != nil {
		f.mu.Unlock()
		return api.Entry{}, err
	}
	f.nextID++
	e := in.NewEntry()
	e.ID = f.nextID
	f.created = append(f.created, in)
	f.mu.Unlock()

	for _, c := range in.CategoryIDs {
		f.add(c, e)
	}
	return e, nil
}

func (f *fakeRemote) UpdateEntry(_ context.Context, prior api.Entry, in api.EntryInput) (api.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return api.Entry{}, err
	}
	e := prior.With(in)
	f.updated = append(f.updated, e)
	return e, nil
}

func (f *fakeRemote) DeleteEntry(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	for c, list := range f.entries {
		for i, e := range list {
			if e.ID == id {
				f.entries[c] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return nil
}

func rowKinds(rows []Row) []RowKind {
	kinds := make([]RowKind, len(rows))
	for i, r := range rows {
		kinds[i] = r.Kind
	}
	return kinds
}
