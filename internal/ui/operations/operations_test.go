package operations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/feed"
	"github.com/nickpending/voicejournal/internal/journaltest"
)

func startBackend(t *testing.T, s *journaltest.Server) *api.Client {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, api.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestLoadCategoriesOrdersByIndex(t *testing.T) {
	s := journaltest.New()
	s.AddCategory(api.Category{ID: 1, Name: "Ideen", OrderIndex: 2})
	s.AddCategory(api.Category{ID: 2, Name: "Tagebuch", OrderIndex: 0})
	client := startBackend(t, s)

	msg := LoadCategories(context.Background(), client)().(CategoriesLoadedMsg)
	if !msg.Success {
		t.Fatalf("expected success, got %v", msg.Error)
	}
	if len(msg.Categories) != 2 || msg.Categories[0].Name != "Tagebuch" {
		t.Errorf("unexpected order: %+v", msg.Categories)
	}
}

func TestLoadCategoriesFailureNamesBackend(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"server error", http.StatusInternalServerError, "HTTP 500"},
		{"not found", http.StatusNotFound, "HTTP 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := journaltest.New()
			s.FailNext(tt.status)
			client := startBackend(t, s)

			msg := LoadCategories(context.Background(), client)().(CategoriesLoadedMsg)
			if msg.Success || msg.Error == nil {
				t.Fatal("expected failure")
			}
			for _, part := range []string{tt.want, client.BaseURL(), "Ist das Backend gestartet?"} {
				if !strings.Contains(msg.Message, part) {
					t.Errorf("message %q does not contain %q", msg.Message, part)
				}
			}
		})
	}
}

func TestLoadCategoriesUnreachable(t *testing.T) {
	client, err := api.NewClient("http://127.0.0.1:1", api.WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	msg := LoadCategories(context.Background(), client)().(CategoriesLoadedMsg)
	if !strings.Contains(msg.Message, "keine Verbindung") {
		t.Errorf("unexpected message %q", msg.Message)
	}
}

func TestLoadPageAndMutateRoundTrip(t *testing.T) {
	s := journaltest.New()
	s.AddCategory(api.Category{ID: 1, Name: "Tagebuch"})
	s.AddEntry(api.Entry{Content: "hallo", Start: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), CategoryIDs: []int64{1}})
	client := startBackend(t, s)

	engine := feed.NewEngine(feed.Options{PageSize: 5, Format: feed.NewDateFormatter("de", time.UTC)})
	engine.Reset(api.Category{ID: 1})
	req, ok := engine.RequestPage()
	if !ok {
		t.Fatal("expected a page request")
	}

	page := LoadPage(context.Background(), client, req)().(PageLoadedMsg)
	if page.Result.Err != nil {
		t.Fatalf("page failed: %v", page.Result.Err)
	}
	if _, err := engine.ApplyPage(page.Result); err != nil {
		t.Fatal(err)
	}

	id := engine.Model().Entries()[0].ID
	m, err := feed.NewSynchronizer(engine).Delete(id)
	if err != nil {
		t.Fatal(err)
	}
	done := Mutate(context.Background(), client, m)().(EntryMutatedMsg)
	if done.Result.Err != nil {
		t.Fatalf("delete failed: %v", done.Result.Err)
	}
	if _, ok := s.Entry(id); ok {
		t.Error("entry still present on the backend")
	}
}
