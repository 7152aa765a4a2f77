// Package journaltest provides an in-memory journal backend speaking the
// same REST dialect as the real one. Tests mount it with httptest; the
// journal-fake command serves it for local development.
package journaltest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nickpending/voicejournal/internal/api"
)

// Server is a thread-safe in-memory journal backend
type Server struct {
	mu         sync.Mutex
	categories []api.Category
	entries    map[int64]api.Entry
	nextID     int64
	failures   []int
	calls      map[string]int
	delay      time.Duration

	router chi.Router
}

// Option customises a Server
type Option func(*Server)

// WithDelay delays every response, to make loading states visible
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithMiddleware prepends chi middleware such as middleware.Logger
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) { s.router.Use(mw...) }
}

// New returns an empty backend
func New(opts ...Option) *Server {
	s := &Server{
		entries: make(map[int64]api.Entry),
		calls:   make(map[string]int),
		router:  chi.NewRouter(),
	}
	s.router.Use(middleware.Recoverer)
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.inject)
	r.Get("/categories", s.handleCategories)
	r.Get("/journalentries/category/{categoryID}", s.handleListEntries)
	r.Post("/journalentries", s.handleCreate)
	r.Put("/journalentries/{entryID}", s.handleUpdate)
	r.Delete("/journalentries/{entryID}", s.handleDelete)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddCategory registers a category
func (s *Server) AddCategory(c api.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

// AddEntry stores e, assigning an id when it has none, and returns the id
func (s *Server) AddEntry(e api.Entry) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	} else if e.ID > s.nextID {
		s.nextID = e.ID
	}
	s.entries[e.ID] = e
	return e.ID
}

// Entry returns the stored entry with id
func (s *Server) Entry(id int64) (api.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

// FailNext makes the next request answer with status, before any handler runs
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, status)
}

// Calls returns how often a route pattern was served, e.g.
// "GET /journalentries/category/{categoryID}"
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		var status int
		if len(s.failures) > 0 {
			status = s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// count records a served route; call it from inside a handler, where the pattern is known
func (s *Server) count(r *http.Request) {
	pattern := chi.RouteContext(r.Context()).RoutePattern()
	s.mu.Lock()
	s.calls[r.Method+" "+pattern]++
	s.mu.Unlock()
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.count(r)
	s.mu.Lock()
	out := append([]api.Category(nil), s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	s.count(r)
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var matched []api.Entry
	for _, e := range s.entries {
		if e.HasCategory(categoryID) {
			matched = append(matched, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Start.Equal(matched[j].Start) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Start.After(matched[j].Start)
	})

	q := r.URL.Query()
	if q.Get("pageSize") != "" {
		page, err1 := strconv.Atoi(q.Get("page"))
		size, err2 := strconv.Atoi(q.Get("pageSize"))
		if err1 != nil || err2 != nil || page < 1 || size < 1 {
			http.Error(w, "invalid pagination", http.StatusBadRequest)
			return
		}
		from := (page - 1) * size
		switch {
		case from >= len(matched):
			matched = nil
		case from+size < len(matched):
			matched = matched[from : from+size]
		default:
			matched = matched[from:]
		}
	}

	if matched == nil {
		matched = []api.Entry{}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.count(r)
	var e api.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid entry", http.StatusBadRequest)
		return
	}
	e.ID = 0
	e.ID = s.AddEntry(e)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.count(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	var e api.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid entry", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, ok := s.entries[id]
	if ok {
		e.ID = id
		s.entries[id] = e
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.count(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
