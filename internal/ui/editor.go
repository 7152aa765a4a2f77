package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/voicejournal/internal/api"
	"github.com/nickpending/voicejournal/internal/drafts"
)

const dateTimeLayout = "2006-01-02 15:04"

const (
	titleNewEntry  = "Neuer Eintrag"
	titleEditEntry = "Eintrag bearbeiten"
)

type editorField int

const (
	fieldContent editorField = iota
	fieldStart
	fieldStop
	fieldCategories
	fieldCount
)

// editorSubmitMsg asks the model to save the form
type editorSubmitMsg struct {
	EntryID int64
	Input   api.EntryInput
}

// editorDeleteMsg asks the model to delete the edited entry
type editorDeleteMsg struct {
	EntryID int64
}

// EntryEditor is the overlay form for creating and editing entries
type EntryEditor struct {
	Modal
	entryID  int64
	location *time.Location

	content textarea.Model
	start   textinput.Model
	stop    textinput.Model

	categories []api.Category
	checked    map[int64]bool
	catCursor  int

	focus         editorField
	confirmDelete bool
	saving        bool
	errorMsg      string
	restored      bool
}

// NewEntryEditor creates a hidden editor
func NewEntryEditor() EntryEditor {
	ta := textarea.New()
	ta.Placeholder = "Was ist passiert?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)

	start := textinput.New()
	start.Placeholder = dateTimeLayout
	start.CharLimit = len(dateTimeLayout)
	start.Prompt = ""

	stop := textinput.New()
	stop.Placeholder = "leer = kein Ende"
	stop.CharLimit = len(dateTimeLayout)
	stop.Prompt = ""

	return EntryEditor{
		Modal:    NewModal(titleNewEntry, 60, 22),
		location: time.Local,
		content:  ta,
		start:    start,
		stop:     stop,
		checked:  make(map[int64]bool),
	}
}

// SetSize sizes the editor to 70% of the terminal width
func (e *EntryEditor) SetSize(width, height int) {
	e.fit(width, height, 0.7, 46, 18)
	e.content.SetWidth(max(e.width-4, 10))
	e.start.Width = len(dateTimeLayout) + 1
	e.stop.Width = len(dateTimeLayout) + 1
}

// SetLocation sets the zone the datetime fields are read and shown in
func (e *EntryEditor) SetLocation(loc *time.Location) {
	if loc != nil {
		e.location = loc
	}
}

func (e *EntryEditor) reset(title string, categories []api.Category) {
	e.SetTitle(title)
	e.categories = categories
	e.checked = make(map[int64]bool)
	e.catCursor = 0
	e.confirmDelete = false
	e.saving = false
	e.errorMsg = ""
	e.restored = false
	e.content.Reset()
	e.start.SetValue("")
	e.stop.SetValue("")
	e.setFocus(fieldContent)
}

// OpenNew shows an empty form starting now, with the viewed category checked
func (e *EntryEditor) OpenNew(categories []api.Category, viewed int64, content string, now time.Time) {
	e.reset(titleNewEntry, categories)
	e.entryID = drafts.NewEntryID
	e.content.SetValue(content)
	e.start.SetValue(now.In(e.location).Format(dateTimeLayout))
	if viewed != 0 {
		e.checked[viewed] = true
	}
	e.Show()
}

// OpenEdit shows the form filled from entry
func (e *EntryEditor) OpenEdit(categories []api.Category, entry api.Entry) {
	e.reset(titleEditEntry, categories)
	e.entryID = entry.ID
	e.fill(api.EntryInput{
		Content:     entry.Content,
		Start:       entry.Start,
		Stop:        entry.Stop,
		CategoryIDs: entry.CategoryIDs,
	})
	e.Show()
}

// RestoreDraft replaces the form contents with a stored draft for the same entry
func (e *EntryEditor) RestoreDraft(d drafts.Draft) bool {
	if !e.visible || d.EntryID != e.entryID {
		return false
	}
	e.fill(d.Input)
	e.restored = true
	return true
}

func (e *EntryEditor) fill(in api.EntryInput) {
	e.content.SetValue(in.Content)
	e.start.SetValue("")
	if !in.Start.IsZero() {
		e.start.SetValue(in.Start.In(e.location).Format(dateTimeLayout))
	}
	e.stop.SetValue("")
	if in.Stop != nil {
		e.stop.SetValue(in.Stop.In(e.location).Format(dateTimeLayout))
	}
	e.checked = make(map[int64]bool)
	for _, id := range in.CategoryIDs {
		e.checked[id] = true
	}
}

// EntryID is 0 for a new entry
func (e EntryEditor) EntryID() int64 {
	return e.entryID
}

func (e EntryEditor) IsNew() bool {
	return e.entryID == drafts.NewEntryID
}

// SetSaving marks a save or delete as in flight; input is ignored meanwhile
func (e *EntryEditor) SetSaving(saving bool) {
	e.saving = saving
	if saving {
		e.errorMsg = ""
	}
}

// SetError shows a failure inside the form and re-enables it
func (e *EntryEditor) SetError(msg string) {
	e.saving = false
	e.confirmDelete = false
	e.errorMsg = msg
}

// Input parses the form. Start is required; an empty end means none.
func (e EntryEditor) Input() (api.EntryInput, error) {
	in := api.EntryInput{Content: strings.TrimSpace(e.content.Value())}

	startRaw := strings.TrimSpace(e.start.Value())
	if startRaw == "" {
		return in, errors.New("Startzeit fehlt")
	}
	start, err := time.ParseInLocation(dateTimeLayout, startRaw, e.location)
	if err != nil {
		return in, fmt.Errorf("Startzeit %q ungültig, Format %s", startRaw, dateTimeLayout)
	}
	in.Start = start

	if stopRaw := strings.TrimSpace(e.stop.Value()); stopRaw != "" {
		stop, err := time.ParseInLocation(dateTimeLayout, stopRaw, e.location)
		if err != nil {
			return in, fmt.Errorf("Endzeit %q ungültig, Format %s", stopRaw, dateTimeLayout)
		}
		in.Stop = &stop
	}

	for id, on := range e.checked {
		if on {
			in.CategoryIDs = append(in.CategoryIDs, id)
		}
	}
	sort.Slice(in.CategoryIDs, func(i, j int) bool { return in.CategoryIDs[i] < in.CategoryIDs[j] })
	return in, nil
}

func (e *EntryEditor) setFocus(f editorField) {
	e.focus = f
	e.content.Blur()
	e.start.Blur()
	e.stop.Blur()
	switch f {
	case fieldContent:
		e.content.Focus()
	case fieldStart:
		e.start.Focus()
	case fieldStop:
		e.stop.Focus()
	}
}

// Update handles form input
func (e EntryEditor) Update(msg tea.Msg) (EntryEditor, tea.Cmd) {
	if !e.visible {
		return e, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e.updateField(msg)
	}
	if e.saving {
		return e, nil
	}

	if e.confirmDelete {
		switch key.String() {
		case "y", "j":
			e.confirmDelete = false
			e.saving = true
			id := e.entryID
			return e, func() tea.Msg { return editorDeleteMsg{EntryID: id} }
		default:
			e.confirmDelete = false
		}
		return e, nil
	}

	switch key.String() {
	case "esc":
		e.Hide()
		return e, nil

	case "ctrl+s":
		in, err := e.Input()
		if err != nil {
			e.errorMsg = err.Error()
			return e, nil
		}
		id := e.entryID
		return e, func() tea.Msg { return editorSubmitMsg{EntryID: id, Input: in} }

	case "ctrl+d":
		if !e.IsNew() {
			e.confirmDelete = true
		}
		return e, nil

	case "tab":
		e.setFocus((e.focus + 1) % fieldCount)
		return e, nil

	case "shift+tab":
		e.setFocus((e.focus + fieldCount - 1) % fieldCount)
		return e, nil
	}

	if e.focus == fieldCategories {
		switch key.String() {
		case "left", "h", "up", "k":
			if e.catCursor > 0 {
				e.catCursor--
			}
		case "right", "l", "down", "j":
			if e.catCursor < len(e.categories)-1 {
				e.catCursor++
			}
		case " ", "x", "enter":
			if e.catCursor < len(e.categories) {
				id := e.categories[e.catCursor].ID
				e.checked[id] = !e.checked[id]
			}
		}
		return e, nil
	}

	return e.updateField(msg)
}

func (e EntryEditor) updateField(msg tea.Msg) (EntryEditor, tea.Cmd) {
	var cmd tea.Cmd
	switch e.focus {
	case fieldContent:
		e.content, cmd = e.content.Update(msg)
	case fieldStart:
		e.start, cmd = e.start.Update(msg)
	case fieldStop:
		e.stop, cmd = e.stop.Update(msg)
	}
	return e, cmd
}

// View renders the form inside the modal frame
func (e EntryEditor) View(theme StyleTheme) string {
	if !e.visible {
		return ""
	}

	label := func(f editorField, text string) string {
		if e.focus == f {
			return theme.SelectedStyle().Render("▸ " + text)
		}
		return theme.MutedStyle().Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(label(fieldContent, "Inhalt"))
	b.WriteString("\n")
	b.WriteString(e.content.View())
	b.WriteString("\n\n")

	b.WriteString(label(fieldStart, "Beginn"))
	b.WriteString("  ")
	b.WriteString(e.start.View())
	b.WriteString("\n")
	b.WriteString(label(fieldStop, "Ende  "))
	b.WriteString("  ")
	b.WriteString(e.stop.View())
	b.WriteString("\n\n")

	b.WriteString(label(fieldCategories, "Kategorien"))
	b.WriteString("\n  ")
	var boxes []string
	for i, c := range e.categories {
		mark := "[ ]"
		if e.checked[c.ID] {
			mark = "[x]"
		}
		text := mark + " " + c.Name
		switch {
		case e.focus == fieldCategories && i == e.catCursor:
			text = theme.SelectedStyle().Render(text)
		case e.checked[c.ID]:
			text = theme.TagStyle().Render(text)
		default:
			text = lipgloss.NewStyle().Foreground(theme.Text).Render(text)
		}
		boxes = append(boxes, text)
	}
	b.WriteString(wrapText(strings.Join(boxes, "  "), max(e.width-6, 10)))
	b.WriteString("\n\n")

	switch {
	case e.confirmDelete:
		b.WriteString(theme.ErrorStyle().Render("Eintrag wirklich löschen? (y/n)"))
	case e.saving:
		b.WriteString(theme.MutedStyle().Render("Speichere..."))
	case e.errorMsg != "":
		b.WriteString(theme.ErrorStyle().Render(e.errorMsg))
	case e.restored:
		b.WriteString(theme.SuccessStyle().Render("Entwurf wiederhergestellt"))
	}
	b.WriteString("\n")

	hints := []string{"ctrl+s speichern"}
	if !e.IsNew() {
		hints = append(hints, "ctrl+d löschen")
	}
	hints = append(hints, "tab weiter", "esc abbrechen")
	b.WriteString(theme.MutedStyle().Render(strings.Join(hints, "  ·  ")))

	return e.Frame(b.String(), theme)
}
