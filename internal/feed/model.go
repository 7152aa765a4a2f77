package feed

import (
	"sort"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
)

// RowKind identifies what a projection row renders
type RowKind int

const (
	RowSeparator RowKind = iota
	RowEntry
	RowPlaceholder
	RowNotice
	RowSentinel
)

func (k RowKind) String() string {
	switch k {
	case RowSeparator:
		return "separator"
	case RowEntry:
		return "entry"
	case RowPlaceholder:
		return "placeholder"
	case RowNotice:
		return "notice"
	case RowSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

const (
	PlaceholderText = "Keine Einträge für diese Kategorie gefunden."
	NoticeText      = "Fehler beim Laden der Einträge für die ausgewählte Kategorie."
)

// Row is one line item of the rendered projection
type Row struct {
	Kind RowKind

	// Separator label, placeholder, notice or sentinel text
	Text string
	// Separator calendar date (midnight, formatter zone)
	Date time.Time

	EntryID int64
	Content string
	Time    string
	Tags    []string

	Status SentinelStatus
}

// item is either a date separator or an entry, in render order
type item struct {
	separator bool
	date      time.Time
	entry     api.Entry
}

// Model is the date-grouped feed of one Feed State. Separators are stored
// alongside entries so patches and removals leave the grouping untouched.
type Model struct {
	format DateFormatter

	items []item
	index map[int64]int

	lastGroupDate time.Time
	hasGroupDate  bool
	placeholder   bool
}

// NewModel returns an empty model using format for grouping and labels
func NewModel(format DateFormatter) *Model {
	return &Model{
		format: format,
		index:  make(map[int64]int),
	}
}

// Clear drops every entry and separator and forgets the last group date
func (m *Model) Clear() {
	m.items = nil
	m.index = make(map[int64]int)
	m.lastGroupDate = time.Time{}
	m.hasGroupDate = false
	m.placeholder = false
}

// MergePage adds a fetched page. A non-append merge replaces the model.
// The page is sorted by start time descending before it is grouped; earlier
// content is never re-sorted.
func (m *Model) MergePage(entries []api.Entry, appendPage bool) int {
	if !appendPage {
		m.Clear()
	}
	if len(entries) == 0 {
		if !appendPage {
			m.placeholder = true
		}
		return 0
	}

	page := make([]api.Entry, len(entries))
	copy(page, entries)
	sort.SliceStable(page, func(i, j int) bool {
		return page[i].Start.After(page[j].Start)
	})

	added := 0
	for _, e := range page {
		if _, dup := m.index[e.ID]; dup {
			continue
		}
		day := m.format.Day(e.Start)
		if !m.hasGroupDate || !day.Equal(m.lastGroupDate) {
			m.items = append(m.items, item{separator: true, date: day})
			m.lastGroupDate = day
			m.hasGroupDate = true
		}
		m.index[e.ID] = len(m.items)
		m.items = append(m.items, item{entry: e})
		added++
	}
	m.placeholder = false
	return added
}

// Entries returns the entries in render order
func (m *Model) Entries() []api.Entry {
	out := make([]api.Entry, 0, len(m.index))
	for _, it := range m.items {
		if !it.separator {
			out = append(out, it.entry)
		}
	}
	return out
}

// Len returns the number of entries
func (m *Model) Len() int {
	return len(m.index)
}

// Empty reports whether the last non-append merge produced no entries
func (m *Model) Empty() bool {
	return m.placeholder
}

// Lookup finds an entry by id
func (m *Model) Lookup(id int64) (api.Entry, bool) {
	i, ok := m.index[id]
	if !ok {
		return api.Entry{}, false
	}
	return m.items[i].entry, true
}

// Patch replaces an entry's fields in place. Its position and the
// surrounding separators are kept even when the start time moved.
func (m *Model) Patch(e api.Entry) bool {
	i, ok := m.index[e.ID]
	if !ok {
		return false
	}
	m.items[i].entry = e
	return true
}

// Remove deletes an entry. A separator left without entries stays.
func (m *Model) Remove(id int64) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.items); j++ {
		if !m.items[j].separator {
			m.index[m.items[j].entry.ID] = j
		}
	}
	return true
}

// Rows projects the model. viewed is excluded from tags and names maps
// category ids to labels; unknown ids produce no tag.
func (m *Model) Rows(viewed int64, names map[int64]string) []Row {
	if m.placeholder {
		return []Row{{Kind: RowPlaceholder, Text: PlaceholderText}}
	}

	rows := make([]Row, 0, len(m.items))
	for _, it := range m.items {
		if it.separator {
			rows = append(rows, Row{
				Kind: RowSeparator,
				Text: m.format.FullDate(it.date),
				Date: it.date,
			})
			continue
		}
		rows = append(rows, m.entryRow(it.entry, viewed, names))
	}
	return rows
}

func (m *Model) entryRow(e api.Entry, viewed int64, names map[int64]string) Row {
	var tags []string
	for _, id := range e.CategoryIDs {
		if id == viewed {
			continue
		}
		if name, ok := names[id]; ok && name != "" {
			tags = append(tags, name)
		}
	}
	return Row{
		Kind:    RowEntry,
		EntryID: e.ID,
		Content: e.Content,
		Time:    m.format.TimeRange(e.Start, e.Stop),
		Tags:    tags,
	}
}
