package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Category represents a journal category from GET /categories
type Category struct {
	ID         int64  `json:"id"`
	Name       string `json:"category"`
	OrderIndex int    `json:"orderIndex"`
	ShowAll    bool   `json:"showAll"`
}

// SortCategories orders categories for display by orderIndex ascending.
// Ties keep their server order.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].OrderIndex < categories[j].OrderIndex
	})
}

// Entry represents a journal entry. Timestamps travel as epoch milliseconds.
//
// Every field the server sent is retained so that an update can send back a
// superset of the prior entry, including fields this client does not model.
type Entry struct {
	ID          int64
	Content     string
	Start       time.Time
	Stop        *time.Time
	CategoryIDs []int64
	HasImage    bool

	raw map[string]json.RawMessage
}

// entryWire is the JSON shape of an entry on the wire
type entryWire struct {
	ID          int64   `json:"id,omitempty"`
	Content     string  `json:"content"`
	Start       int64   `json:"start_datetime"`
	Stop        *int64  `json:"stop_datetime"`
	CategoryIDs []int64 `json:"categoryIds"`
	HasImage    bool    `json:"hasImage"`
}

// knownEntryFields are the keys owned by entryWire
var knownEntryFields = []string{"id", "content", "start_datetime", "stop_datetime", "categoryIds", "hasImage"}

// UnmarshalJSON decodes an entry and keeps the raw fields for later merges
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}

	var w entryWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("decode entry fields: %w", err)
	}

	*e = fromWire(w)
	e.raw = raw
	return nil
}

// MarshalJSON encodes the entry, carrying through any unknown fields it was decoded with
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.raw)+len(knownEntryFields))
	for k, v := range e.raw {
		out[k] = v
	}

	known, err := json.Marshal(e.wire())
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for _, k := range knownEntryFields {
		if v, ok := fields[k]; ok {
			out[k] = v
		}
	}
	if e.ID == 0 {
		delete(out, "id")
	}

	return json.Marshal(out)
}

// HasCategory reports whether the entry is linked to the given category
func (e Entry) HasCategory(id int64) bool {
	for _, c := range e.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// With returns a copy of e with the input's fields applied on top.
// ID, HasImage and unknown server fields are kept from e.
func (e Entry) With(in EntryInput) Entry {
	merged := e
	merged.Content = in.Content
	merged.Start = in.Start
	merged.Stop = in.Stop
	merged.CategoryIDs = append([]int64(nil), in.CategoryIDs...)
	return merged
}

func (e Entry) wire() entryWire {
	w := entryWire{
		ID:          e.ID,
		Content:     e.Content,
		Start:       e.Start.UnixMilli(),
		CategoryIDs: e.CategoryIDs,
		HasImage:    e.HasImage,
	}
	if w.CategoryIDs == nil {
		w.CategoryIDs = []int64{}
	}
	if e.Stop != nil {
		ms := e.Stop.UnixMilli()
		w.Stop = &ms
	}
	return w
}

func fromWire(w entryWire) Entry {
	e := Entry{
		ID:          w.ID,
		Content:     w.Content,
		Start:       time.UnixMilli(w.Start),
		CategoryIDs: w.CategoryIDs,
		HasImage:    w.HasImage,
	}
	if w.Stop != nil {
		stop := time.UnixMilli(*w.Stop)
		e.Stop = &stop
	}
	return e
}

// EntryInput carries the user-editable fields of an entry
type EntryInput struct {
	Content     string
	Start       time.Time `validate:"required"`
	Stop        *time.Time
	CategoryIDs []int64
}

// NewEntry builds the entry sent by POST /journalentries. New entries never carry an image.
func (in EntryInput) NewEntry() Entry {
	return Entry{}.With(in)
}
