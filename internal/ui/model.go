package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/commands"
	"github.com/nickpending/voicejournal/internal/config"
	"github.com/nickpending/voicejournal/internal/drafts"
	"github.com/nickpending/voicejournal/internal/feed"
	"github.com/nickpending/voicejournal/internal/gesture"
	"github.com/nickpending/voicejournal/internal/logging"
	"github.com/nickpending/voicejournal/internal/ui/operations"
)

const (
	viewList   = "list"
	viewReader = "reader"
)

const statusDelay = 3 * time.Second

// Backend is everything the TUI needs from the journal API
type Backend interface {
	feed.Remote
	operations.CategoryLister
}

var _ Backend = (*api.Client)(nil)

// Dialer builds a backend for a configuration; the settings overlay redials with it
type Dialer func(cfg *config.Config) (Backend, error)

// ClientDialer returns a Dialer producing HTTP clients that log to logger
func ClientDialer(logger *log.Logger) Dialer {
	return func(cfg *config.Config) (Backend, error) {
		client, err := api.NewClient(cfg.BaseURL(),
			api.WithTimeout(cfg.Timeout()),
			api.WithRateLimit(cfg.API.RatePerSecond, 1),
			api.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Options configures NewModel. Only Config and one of Backend or Dial matter
// in practice; the rest default to sensible values.
type Options struct {
	Context    context.Context
	Config     *config.Config
	ConfigPath string
	Backend    Backend
	Dial       Dialer
	Drafts     operations.DraftStore
	Logger     *log.Logger
	Location   *time.Location
	Now        func() time.Time
}

// Model represents the application state for the TUI
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	cfgPath string
	backend Backend
	dial    Dialer
	drafts  operations.DraftStore
	logger  *log.Logger
	now     func() time.Time
	format  feed.DateFormatter

	categories        []api.Category
	selected          int
	loadingCategories bool
	categoryErr       string

	engine   *feed.Engine
	trigger  feed.Trigger
	sync     *feed.Synchronizer
	gestures *gesture.Recognizer
	pressed  int64 // entry id held by the primary button, 0 for none

	rows       []feed.Row
	spans      []rowSpan
	feedView   viewport.Model
	selectedID int64

	view        string // "list", "reader"
	reader      viewport.Model
	readerEntry int64

	width         int
	height        int
	statusMessage string
	statusIsError bool
	themeIdx      int

	keys        keyMap
	help        help.Model
	editor      EntryEditor
	settings    SettingsModal
	helpModal   HelpModal
	commandMode CommandMode
}

// gestureExpireMsg is the long-press tick for one press
type gestureExpireMsg struct {
	ID    int64
	Token uint64
}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// NewModel creates a new Model instance
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	format := feed.NewDateFormatter(cfg.Feed.Locale, loc)
	engine := feed.NewEngine(feed.Options{
		PageSize:        cfg.Feed.PageSize,
		ShowAllPageSize: cfg.Feed.ShowAllPageSize,
		Format:          format,
		Logger:          logger,
	})

	policy := gesture.TapIgnored
	if cfg.Gesture.TapOpensEditor {
		policy = gesture.TapOpensEditor
	}
	gestures := gesture.New(gesture.Config{LongPress: cfg.LongPress(), TapPolicy: policy, Now: now})

	editor := NewEntryEditor()
	editor.SetLocation(loc)
	keys := newKeyMap()

	m := Model{
		ctx:         ctx,
		cfg:         cfg,
		cfgPath:     opts.ConfigPath,
		backend:     opts.Backend,
		dial:        opts.Dial,
		drafts:      opts.Drafts,
		logger:      logger,
		now:         now,
		format:      format,
		engine:      engine,
		trigger:     feed.NewTrigger(engine),
		sync:        feed.NewSynchronizer(engine),
		gestures:    gestures,
		feedView:    viewport.New(80, 20),
		view:        viewList,
		reader:      viewport.New(80, 20),
		keys:        keys,
		help:        help.New(),
		editor:      editor,
		settings:    NewSettingsModal(),
		helpModal:   NewHelpModal(keys, gestures.Duration(), policy == gesture.TapOpensEditor),
		commandMode: NewCommandMode(),
	}

	if m.backend == nil && m.dial != nil {
		b, err := m.dial(cfg)
		if err != nil {
			m.categoryErr = fmt.Sprintf("Backend %s ungültig: %v", cfg.BaseURL(), err)
		} else {
			m.backend = b
		}
	}
	if m.backend != nil {
		m.loadingCategories = true
	} else if m.categoryErr == "" {
		m.categoryErr = "Kein Backend konfiguriert"
	}
	return m
}

// Init loads the categories; the first one then loads its first page
func (m Model) Init() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	return operations.LoadCategories(m.ctx, m.backend)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results and internal messages are handled whatever overlay is open
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, m.observe()

	case operations.CategoriesLoadedMsg:
		return m.handleCategories(msg)

	case operations.PageLoadedMsg:
		return m.handlePage(msg)

	case operations.EntryMutatedMsg:
		return m.handleMutation(msg)

	case operations.DraftLoadedMsg:
		if msg.Error != nil {
			m.logger.Warn("draft lookup failed", "entry", msg.EntryID, "err", msg.Error)
			return m, nil
		}
		if msg.Found && m.editor.RestoreDraft(msg.Draft) {
			m.logger.Debug("draft restored", "entry", msg.EntryID, "saved", msg.Draft.UpdatedAt)
		}
		return m, nil

	case operations.DraftSavedMsg:
		if msg.Error != nil {
			m.logger.Warn("draft write failed", "entry", msg.EntryID, "discard", msg.Discarded, "err", msg.Error)
		}
		return m, nil

	case operations.SettingsSavedMsg:
		return m.handleSettingsSaved(msg)

	case gestureExpireMsg:
		if m.gestures.Expire(msg.ID, msg.Token) != gesture.LongPress {
			return m, nil
		}
		m.refreshFeed()
		return m, m.openEdit(msg.ID)

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case clearErrorMsg:
		m.commandMode, _ = m.commandMode.Update(msg)
		return m, nil

	case editorSubmitMsg:
		return m.submitEntry(msg)

	case editorDeleteMsg:
		return m.deleteEntry(msg)

	case settingsSubmitMsg:
		return m, operations.SaveSettings(m.cfgPath, msg.Config)
	}

	if cmd, handled := m.handleCommand(msg); handled {
		return m, cmd
	}

	// A held press ends on release even if an overlay opened meanwhile
	if mouse, ok := msg.(tea.MouseMsg); ok && mouse.Action == tea.MouseActionRelease && m.overlayOpen() {
		m.endPress()
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.commandMode.IsActive():
		m.commandMode, cmd = m.commandMode.Update(msg)
		return m, cmd
	case m.editor.IsVisible():
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	case m.settings.IsVisible():
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	case m.helpModal.IsVisible():
		m.helpModal, cmd = m.helpModal.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.view == viewReader {
			return m.updateReader(msg)
		}
		return m.updateList(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

// View renders the screen and whichever overlay is open
func (m Model) View() string {
	base := RenderList(m)
	theme := m.theme()

	switch {
	case m.editor.IsVisible():
		return overlay(base, m.editor.View(theme), m.width, m.height)
	case m.settings.IsVisible():
		return overlay(base, m.settings.View(theme), m.width, m.height)
	case m.helpModal.IsVisible():
		return overlay(base, m.helpModal.View(theme), m.width, m.height)
	}
	return base
}

func (m Model) theme() StyleTheme {
	return AvailableThemes[m.themeIdx%len(AvailableThemes)]
}

func (m Model) feedHeight() int {
	return max(m.height-4, 1)
}

func (m Model) overlayOpen() bool {
	return m.editor.IsVisible() || m.settings.IsVisible() || m.helpModal.IsVisible()
}

func (m Model) selectedCategory() (api.Category, bool) {
	if m.selected < 0 || m.selected >= len(m.categories) {
		return api.Category{}, false
	}
	return m.categories[m.selected], true
}

// selectedEntry returns the projection row of the selected entry
func (m Model) selectedEntry() (feed.Row, bool) {
	if m.selectedID == 0 {
		return feed.Row{}, false
	}
	for _, row := range m.rows {
		if row.Kind == feed.RowEntry && row.EntryID == m.selectedID {
			return row, true
		}
	}
	return feed.Row{}, false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.feedView.Width = width
	m.feedView.Height = m.feedHeight()
	m.help.Width = width
	m.editor.SetSize(width, height)
	m.settings.SetSize(width, height)
	m.helpModal.SetSize(width, height)
	m.commandMode.SetWidth(width)
	m.refreshFeed()
	if m.view == viewReader {
		m.updateReaderContent()
	}
}

// refreshFeed rebuilds the projection and the rendered feed
func (m *Model) refreshFeed() {
	m.rows = m.engine.Rows()
	content, spans := renderRows(m.rows, m.width, m.selectedID, m.pressed, m.theme())
	m.spans = spans
	m.feedView.SetContent(content)
}

// observe measures how much of the sentinel is on screen and lets the
// trigger decide whether to fetch the next page
func (m *Model) observe() tea.Cmd {
	if m.backend == nil || len(m.spans) == 0 || m.view != viewList {
		return nil
	}
	sentinel := m.spans[len(m.spans)-1]
	ratio := feed.IntersectionRatio(m.feedView.YOffset, m.feedView.Height, sentinel.top, sentinel.height)
	req, ok := m.trigger.Observe(ratio)
	if !ok {
		return nil
	}
	m.refreshFeed()
	return operations.LoadPage(m.ctx, m.backend, req)
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	return tea.Tick(statusDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m Model) handleCategories(msg operations.CategoriesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingCategories = false
	if !msg.Success {
		m.logger.Error("categories failed", "url", m.cfg.BaseURL(), "err", msg.Error)
		m.categories = nil
		m.categoryErr = msg.Message
		m.engine.Clear()
		m.refreshFeed()
		return m, nil
	}

	var previous int64
	if cat, ok := m.selectedCategory(); ok {
		previous = cat.ID
	}

	m.categoryErr = ""
	m.categories = msg.Categories
	m.engine.SetCategories(msg.Categories)
	names := make([]string, len(msg.Categories))
	idx := 0
	for i, c := range msg.Categories {
		names[i] = c.Name
		if c.ID == previous {
			idx = i
		}
	}
	m.commandMode.SetCategories(names)
	m.logger.Info("categories loaded", "count", len(msg.Categories))

	if len(m.categories) == 0 {
		m.engine.Clear()
		m.refreshFeed()
		return m, nil
	}
	return m, m.selectCategory(idx)
}

// selectCategory replaces the Feed State; the visible sentinel then asks for page 1
func (m *Model) selectCategory(i int) tea.Cmd {
	if i < 0 || i >= len(m.categories) {
		return nil
	}
	m.selected = i
	m.engine.Reset(m.categories[i])
	m.gestures.CancelAll()
	m.pressed = 0
	m.selectedID = 0
	m.view = viewList
	m.feedView.GotoTop()
	m.refreshFeed()
	return m.observe()
}

func (m Model) handlePage(msg operations.PageLoadedMsg) (tea.Model, tea.Cmd) {
	out, err := m.engine.ApplyPage(msg.Result)
	switch {
	case feed.IsStale(err):
		return m, nil
	case err != nil:
		// No observe here: a still-visible sentinel would retry forever
		m.refreshFeed()
		return m, m.setStatus("Fehler beim Laden der Einträge", true)
	}

	if m.selectedID == 0 && out.Page == 1 {
		if entries := m.engine.Model().Entries(); len(entries) > 0 {
			m.selectedID = entries[0].ID
		}
	}
	m.refreshFeed()
	return m, m.observe()
}

func (m Model) submitEntry(msg editorSubmitMsg) (tea.Model, tea.Cmd) {
	if m.backend == nil {
		m.editor.SetError("Keine Verbindung zum Backend")
		return m, nil
	}

	var (
		mut feed.Mutation
		err error
	)
	if msg.EntryID == drafts.NewEntryID {
		mut, err = m.sync.Create(msg.Input)
	} else {
		mut, err = m.sync.Update(msg.EntryID, msg.Input)
	}
	if err != nil {
		m.editor.SetError(err.Error())
		return m, nil
	}
	m.editor.SetSaving(true)
	return m, operations.Mutate(m.ctx, m.backend, mut)
}

func (m Model) deleteEntry(msg editorDeleteMsg) (tea.Model, tea.Cmd) {
	if m.backend == nil {
		m.editor.SetError("Keine Verbindung zum Backend")
		return m, nil
	}
	mut, err := m.sync.Delete(msg.EntryID)
	if err != nil {
		m.editor.SetError(err.Error())
		return m, nil
	}
	m.editor.SetSaving(true)
	return m, operations.Mutate(m.ctx, m.backend, mut)
}

func (m Model) handleMutation(msg operations.EntryMutatedMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	mut := res.Mutation
	draftID := mut.ID
	if mut.Kind == feed.MutationCreate {
		draftID = drafts.NewEntryID
	}

	var neighbour int64
	if mut.Kind == feed.MutationDelete {
		neighbour = m.neighbourOf(mut.ID)
	}

	req, ok, err := m.sync.Apply(res)
	var fetchErr *feed.FetchError
	switch {
	case errors.As(err, &fetchErr):
		m.editor.SetError("Speichern fehlgeschlagen: " + fetchErr.Err.Error())
		if mut.Kind != feed.MutationDelete {
			return m, operations.SaveDraft(m.ctx, m.drafts, draftID, mut.Input)
		}
		return m, nil

	case feed.IsStale(err):
		// The backend has it; the feed it belonged to is gone
		m.editor.Hide()
		return m, tea.Batch(
			operations.DiscardDraft(m.ctx, m.drafts, draftID),
			m.setStatus("Gespeichert", false),
		)

	case err != nil:
		m.editor.Hide()
		m.refreshFeed()
		return m, m.setStatus(err.Error(), true)
	}

	m.editor.Hide()
	cmds := []tea.Cmd{operations.DiscardDraft(m.ctx, m.drafts, draftID)}

	switch mut.Kind {
	case feed.MutationCreate:
		m.selectedID = res.Entry.ID
		m.view = viewList
		m.feedView.GotoTop()
		cmds = append(cmds, m.setStatus("Eintrag erstellt", false))
		if ok {
			cmds = append(cmds, operations.LoadPage(m.ctx, m.backend, req))
		}
	case feed.MutationUpdate:
		cmds = append(cmds, m.setStatus("Gespeichert", false))
	case feed.MutationDelete:
		m.selectedID = neighbour
		if m.readerEntry == mut.ID {
			m.view = viewList
		}
		cmds = append(cmds, m.setStatus("Gelöscht", false))
	}

	m.refreshFeed()
	if m.view == viewReader {
		m.updateReaderContent()
	}
	cmds = append(cmds, m.observe())
	return m, tea.Batch(cmds...)
}

// neighbourOf returns the entry after id, or before it when id is last
func (m Model) neighbourOf(id int64) int64 {
	entries := m.engine.Model().Entries()
	for i, e := range entries {
		if e.ID != id {
			continue
		}
		switch {
		case i+1 < len(entries):
			return entries[i+1].ID
		case i > 0:
			return entries[i-1].ID
		}
	}
	return 0
}

func (m Model) handleSettingsSaved(msg operations.SettingsSavedMsg) (tea.Model, tea.Cmd) {
	if !msg.Success {
		m.settings.SetError("Speichern fehlgeschlagen: " + msg.Error.Error())
		return m, nil
	}

	m.settings.Hide()
	m.cfg = msg.Config
	m.engine.SetPageSize(m.cfg.Feed.PageSize)
	m.logger.Info("settings saved", "url", m.cfg.BaseURL(), "page_size", m.cfg.Feed.PageSize)

	if m.dial != nil {
		b, err := m.dial(m.cfg)
		if err != nil {
			m.backend = nil
			m.engine.Clear()
			m.refreshFeed()
			m.categoryErr = fmt.Sprintf("Backend %s ungültig: %v", m.cfg.BaseURL(), err)
			return m, nil
		}
		m.backend = b
	}

	status := m.setStatus("Einstellungen gespeichert", false)
	return m, tea.Batch(status, m.reloadCategories())
}

// reloadCategories drops the feed and fetches the category list again
func (m *Model) reloadCategories() tea.Cmd {
	m.engine.Clear()
	m.gestures.CancelAll()
	m.pressed = 0
	m.selectedID = 0
	m.view = viewList
	m.refreshFeed()

	if m.backend == nil {
		m.categoryErr = "Kein Backend konfiguriert"
		return nil
	}
	m.categoryErr = ""
	m.loadingCategories = true
	return operations.LoadCategories(m.ctx, m.backend)
}

// retry repeats whatever failed last: the category list or a page
func (m *Model) retry() tea.Cmd {
	if m.categoryErr != "" {
		return m.reloadCategories()
	}
	if m.engine.Status() != feed.StatusFailed || m.backend == nil {
		return nil
	}
	req, ok := m.engine.RequestPage()
	if !ok {
		return nil
	}
	m.refreshFeed()
	return operations.LoadPage(m.ctx, m.backend, req)
}

func (m *Model) openNew(content string) tea.Cmd {
	m.endPress()
	var viewed int64
	if cat, ok := m.selectedCategory(); ok {
		viewed = cat.ID
	}
	m.editor.OpenNew(m.categories, viewed, content, m.now())
	if content != "" {
		return nil
	}
	return operations.LoadDraft(m.ctx, m.drafts, drafts.NewEntryID)
}

func (m *Model) openEdit(id int64) tea.Cmd {
	entry, ok := m.engine.Model().Lookup(id)
	if !ok {
		return m.setStatus("Eintrag nicht gefunden", true)
	}
	m.selectedID = id
	m.editor.OpenEdit(m.categories, entry)
	m.refreshFeed()
	return operations.LoadDraft(m.ctx, m.drafts, id)
}

// handleCommand runs the messages produced by command mode
func (m *Model) handleCommand(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commands.ErrorMsg:
		return m.commandMode.SetError(msg.Message), true

	case commands.RefreshMsg:
		return m.reloadCategories(), true

	case commands.RetryMsg:
		return m.retry(), true

	case commands.HelpMsg:
		m.helpModal.Show()
		return nil, true

	case commands.NewEntryMsg:
		return m.openNew(msg.Content), true

	case commands.EditEntryMsg:
		row, ok := m.selectedEntry()
		if !ok {
			return m.setStatus("Kein Eintrag ausgewählt", true), true
		}
		return m.openEdit(row.EntryID), true

	case commands.CategoryMsg:
		idx, err := m.findCategory(msg.Name)
		if err != nil {
			return m.commandMode.SetError(err.Error()), true
		}
		return m.selectCategory(idx), true

	case commands.SettingsMsg:
		m.settings.Open(m.cfg)
		return nil, true

	case commands.CopyMsg:
		return m.copySelected(msg.Target), true

	case commands.ThemeMsg:
		m.themeIdx = (m.themeIdx + 1) % len(AvailableThemes)
		m.refreshFeed()
		if m.view == viewReader {
			m.updateReaderContent()
		}
		return m.setStatus("Theme: "+m.theme().Name, false), true
	}
	return nil, false
}

// findCategory matches an id, an exact name or a unique name prefix, ignoring case
func (m Model) findCategory(name string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if id, err := strconv.ParseInt(needle, 10, 64); err == nil {
		for i, c := range m.categories {
			if c.ID == id {
				return i, nil
			}
		}
	}

	var matches []int
	for i, c := range m.categories {
		lower := strings.ToLower(c.Name)
		if lower == needle {
			return i, nil
		}
		if strings.HasPrefix(lower, needle) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("Unknown category: %s", name)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, idx := range matches {
		names[i] = m.categories[idx].Name
	}
	return 0, fmt.Errorf("Ambiguous category '%s': %s", name, strings.Join(names, ", "))
}

// copySelected copies the selected entry; "all" prepends date, time and tags
func (m *Model) copySelected(target string) tea.Cmd {
	row, ok := m.selectedEntry()
	if !ok {
		return m.setStatus("Kein Eintrag ausgewählt", true)
	}

	text := row.Content
	if target == "all" {
		header := row.Time
		if entry, found := m.engine.Model().Lookup(row.EntryID); found {
			header = m.format.FullDate(entry.Start) + " " + row.Time
		}
		if len(row.Tags) > 0 {
			header += "\n" + strings.Join(row.Tags, ", ")
		}
		text = header + "\n\n" + row.Content
	}

	if err := CopyToClipboard(text); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		return m.setStatus(err.Error(), true)
	}
	return m.setStatus("In die Zwischenablage kopiert", false)
}

func (m Model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace", "enter":
		m.view = viewList
		m.refreshFeed()
		return m, m.observe()
	case "ctrl+c":
		return m, tea.Quit
	case "e":
		return m, m.openEdit(m.readerEntry)
	case ":":
		m.commandMode.Show()
		return m, nil
	}

	var cmd tea.Cmd
	m.reader, cmd = m.reader.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpModal.Show()
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.commandMode.Show()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m, m.retry()

	case key.Matches(msg, m.keys.Settings):
		m.settings.Open(m.cfg)
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m, m.openNew("")
	}

	if m.categoryErr != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		return m, m.moveSelection(1)

	case key.Matches(msg, m.keys.Up):
		return m, m.moveSelection(-1)

	case key.Matches(msg, m.keys.Top):
		m.selectedID = 0
		m.feedView.GotoTop()
		return m, m.moveSelection(1)

	case key.Matches(msg, m.keys.Bottom):
		if entries := m.engine.Model().Entries(); len(entries) > 0 {
			m.selectedID = entries[len(entries)-1].ID
		}
		m.refreshFeed()
		m.feedView.GotoBottom()
		return m, m.observe()

	case key.Matches(msg, m.keys.NextCategory):
		if n := len(m.categories); n > 0 {
			return m, m.selectCategory((m.selected + 1) % n)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevCategory):
		if n := len(m.categories); n > 0 {
			return m, m.selectCategory((m.selected + n - 1) % n)
		}
		return m, nil

	case key.Matches(msg, m.keys.Read):
		if _, ok := m.selectedEntry(); !ok {
			return m, nil
		}
		m.view = viewReader
		m.updateReaderContent()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedEntry()
		if !ok {
			return m, m.setStatus("Kein Eintrag ausgewählt", true)
		}
		return m, m.openEdit(row.EntryID)
	}

	// Paging keys scroll the feed directly
	var cmd tea.Cmd
	m.feedView, cmd = m.feedView.Update(msg)
	return m, tea.Batch(cmd, m.observe())
}

// moveSelection steps through entry rows and keeps the selection on screen
func (m *Model) moveSelection(delta int) tea.Cmd {
	var idx []int
	cur := -1
	for i, row := range m.rows {
		if row.Kind != feed.RowEntry {
			continue
		}
		if row.EntryID == m.selectedID {
			cur = len(idx)
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 {
		return nil
	}

	next := cur + delta
	if cur < 0 {
		next = 0
	}
	next = min(max(next, 0), len(idx)-1)

	m.selectedID = m.rows[idx[next]].EntryID
	m.refreshFeed()
	m.scrollTo(idx[next])
	return m.observe()
}

// scrollTo brings row into view. The last entry also reveals the sentinel
// below it so reaching the end loads the next page.
func (m *Model) scrollTo(row int) {
	if row < 0 || row >= len(m.spans) {
		return
	}
	top := m.spans[row].top
	bottom := top + m.spans[row].height
	if row+1 < len(m.rows) && m.rows[row+1].Kind == feed.RowSentinel {
		bottom = m.spans[row+1].top + m.spans[row+1].height
	}

	switch {
	case top < m.feedView.YOffset:
		m.feedView.SetYOffset(top)
	case bottom > m.feedView.YOffset+m.feedView.Height:
		m.feedView.SetYOffset(max(bottom-m.feedView.Height, 0))
	}
}

// rowAt maps a terminal line to the projection row rendered there
func (m Model) rowAt(y int) (feed.Row, bool) {
	if y < feedTop || y >= feedTop+m.feedView.Height {
		return feed.Row{}, false
	}
	line := y - feedTop + m.feedView.YOffset
	for i, s := range m.spans {
		if s.contains(line) {
			return m.rows[i], true
		}
	}
	return feed.Row{}, false
}

// endPress releases the held press, if any, and returns what it amounted to
func (m *Model) endPress() gesture.Outcome {
	if m.pressed == 0 {
		return gesture.None
	}
	id := m.pressed
	m.pressed = 0
	out := m.gestures.Release(id)
	m.refreshFeed()
	return out
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view == viewReader {
		var cmd tea.Cmd
		m.reader, cmd = m.reader.Update(msg)
		return m, cmd
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		m.feedView, _ = m.feedView.Update(msg)
		m.gestures.CancelAll()
		m.pressed = 0
		m.refreshFeed()
		return m, m.observe()
	}

	row, onRow := m.rowAt(msg.Y)
	onEntry := onRow && row.Kind == feed.RowEntry

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonRight:
			// Swallowed so the terminal menu cannot race the long press
			if onEntry {
				m.gestures.ContextMenu(row.EntryID)
			}
			return m, nil

		case tea.MouseButtonLeft:
			if !onEntry {
				return m, nil
			}
			m.selectedID = row.EntryID
			token, ok := m.gestures.Press(row.EntryID, gesture.PointerPrimary)
			if ok {
				m.pressed = row.EntryID
			}
			m.refreshFeed()
			if !ok {
				return m, nil
			}
			id := row.EntryID
			return m, tea.Tick(m.gestures.Duration(), func(time.Time) tea.Msg {
				return gestureExpireMsg{ID: id, Token: token}
			})
		}
		return m, nil

	case tea.MouseActionRelease:
		id := m.pressed
		switch m.endPress() {
		case gesture.Tap, gesture.LongPress:
			return m, m.openEdit(id)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.pressed != 0 && (!onEntry || row.EntryID != m.pressed) {
			m.gestures.Cancel(m.pressed)
			m.pressed = 0
			m.refreshFeed()
		}
	}
	return m, nil
}
