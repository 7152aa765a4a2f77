package ui

import (
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/config"
	"github.com/nickpending/voicejournal/internal/journaltest"
)

// cmdTimeout drops timers (status clear, long press) while running commands
const cmdTimeout = 250 * time.Millisecond

// testClock is a settable clock for the gesture recognizer
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var testNow = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

// testBackend mounts s behind an api.Client
func testBackend(t *testing.T, s *journaltest.Server) *api.Client {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, api.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// testModel creates a Model against s with page size 2 on a 100x40 terminal
// and runs Init until the feed settles
func testModel(t *testing.T, s *journaltest.Server, tweak ...func(*Options)) (Model, *testClock) {
	t.Helper()
	clock := &testClock{now: testNow}
	cfg := config.Default()
	cfg.Feed.PageSize = 2

	opts := Options{
		Config:   cfg,
		Backend:  testBackend(t, s),
		Location: time.UTC,
		Now:      clock.Now,
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	m := NewModel(opts)
	m = settle(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	for _, msg := range runCmd(m.Init()) {
		m = settle(t, m, msg)
	}
	return m, clock
}

// seedServer returns a backend with two categories and n entries in category 1,
// one per hour going back from testNow
func seedServer(n int) *journaltest.Server {
	s := journaltest.New()
	s.AddCategory(api.Category{ID: 1, Name: "Tagebuch", OrderIndex: 0})
	s.AddCategory(api.Category{ID: 2, Name: "Arbeit", OrderIndex: 1})
	for i := 0; i < n; i++ {
		s.AddEntry(api.Entry{
			Content:     "Eintrag " + string(rune('A'+i)),
			Start:       testNow.Add(-time.Duration(i+1) * time.Hour),
			CategoryIDs: []int64{1},
		})
	}
	return s
}

// runCmd executes cmd and returns the messages it produced. Batches are
// flattened; commands that do not finish within cmdTimeout are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(cmdTimeout):
		return nil
	}
}

// settle feeds msg to m, then every message its commands produce, until
// nothing is left
func settle(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		if i > 200 {
			t.Fatal("update loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}
		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, runCmd(cmd)...)
	}
	return m
}

// press sends a sequence of keys through settle
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = settle(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// typeText types s rune by rune
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = settle(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// entryLine returns a terminal line inside the rendered entry id
func entryLine(t *testing.T, m Model, id int64) int {
	t.Helper()
	for i, row := range m.rows {
		if row.EntryID == id {
			return feedTop + m.spans[i].top - m.feedView.YOffset + 1
		}
	}
	t.Fatalf("entry %d not rendered", id)
	return 0
}

func entryIDs(m Model) []int64 {
	var ids []int64
	for _, e := range m.engine.Model().Entries() {
		ids = append(ids, e.ID)
	}
	return ids
}
