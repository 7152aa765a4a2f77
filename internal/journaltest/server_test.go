package journaltest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/feed"
)

const listRoute = "GET /journalentries/category/{categoryID}"

func startServer(t *testing.T, s *Server) *api.Client {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, api.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client
}

func seedTwelve(s *Server) {
	s.AddCategory(api.Category{ID: 1, Name: "A", OrderIndex: 0})
	base := time.Date(2024, 1, 20, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		s.AddEntry(api.Entry{
			Content:     "e",
			Start:       base.Add(-time.Duration(i) * 9 * time.Hour),
			CategoryIDs: []int64{1},
		})
	}
}

func TestTwelveEntriesOverHTTP(t *testing.T) {
	s := New()
	seedTwelve(s)
	client := startServer(t, s)

	engine := feed.NewEngine(feed.Options{PageSize: 5, Format: feed.NewDateFormatter("de", time.UTC)})
	trigger := feed.NewTrigger(engine)
	engine.Reset(api.Category{ID: 1})

	_, issued, err := engine.LoadNext(context.Background(), client)
	require.NoError(t, err)
	require.True(t, issued)

	for {
		req, ok := trigger.Observe(1)
		if !ok {
			break
		}
		_, err := engine.ApplyPage(req.Run(context.Background(), client))
		require.NoError(t, err)
	}

	assert.Equal(t, 12, engine.Model().Len())
	assert.Equal(t, 3, s.Calls(listRoute))
}

func TestMutationsOverHTTP(t *testing.T) {
	s := New()
	seedTwelve(s)
	client := startServer(t, s)
	ctx := context.Background()

	engine := feed.NewEngine(feed.Options{PageSize: 5, Format: feed.NewDateFormatter("de", time.UTC)})
	synchronizer := feed.NewSynchronizer(engine)
	engine.Reset(api.Category{ID: 1})
	_, _, err := engine.LoadNext(ctx, client)
	require.NoError(t, err)

	first := engine.Model().Entries()[0]
	_, err = synchronizer.UpdateSync(ctx, client, first.ID, api.EntryInput{
		Content: "geändert", Start: first.Start, CategoryIDs: []int64{1},
	})
	require.NoError(t, err)
	stored, _ := s.Entry(first.ID)
	assert.Equal(t, "geändert", stored.Content)
	assert.Equal(t, 1, s.Calls(listRoute))

	require.NoError(t, synchronizer.DeleteSync(ctx, client, first.ID))
	_, ok := s.Entry(first.ID)
	assert.False(t, ok)

	created, err := synchronizer.CreateSync(ctx, client, api.EntryInput{
		Content: "neu", Start: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), CategoryIDs: []int64{1},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 2, s.Calls(listRoute), "create reloads the first page")
	assert.Equal(t, "neu", engine.Model().Entries()[0].Content)
}

func TestFailNextSurfacesStatusError(t *testing.T) {
	s := New()
	seedTwelve(s)
	client := startServer(t, s)

	s.FailNext(http.StatusServiceUnavailable)
	engine := feed.NewEngine(feed.Options{PageSize: 5})
	engine.Reset(api.Category{ID: 1})

	_, _, err := engine.LoadNext(context.Background(), client)
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)

	// Retry succeeds
	out, _, err := engine.LoadNext(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Added)
}

func TestNonPaginatedListing(t *testing.T) {
	s := New()
	seedTwelve(s)
	client := startServer(t, s)

	entries, err := client.ListEntries(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 12)
}

func TestSeedDemo(t *testing.T) {
	s := New()
	SeedDemo(s, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	client := startServer(t, s)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.True(t, categories[2].ShowAll)

	entries, err := client.ListEntries(context.Background(), 1, 1, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 24)
}

func TestUnknownEntryReturns404(t *testing.T) {
	client := startServer(t, New())

	err := client.DeleteEntry(context.Background(), 404)
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}
