package journaltest

import (
	"fmt"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
)

var demoLines = []string{
	"Morgens joggen im Park, danach Kaffee.",
	"Meeting mit dem Team zur neuen Sprachaufnahme.",
	"Idee: Einträge nach Stimmung filtern.",
	"Abends gelesen, **sehr** gutes Kapitel.",
	"Einkaufen: Brot, Äpfel, Käse.",
	"Telefonat mit Oma.",
	"Code Review für den Sync-Mechanismus.",
}

// SeedDemo fills s with three categories and entries over the last days
// before now. Category 3 lists all entries at once.
func SeedDemo(s *Server, now time.Time) {
	s.AddCategory(api.Category{ID: 1, Name: "Tagebuch", OrderIndex: 0})
	s.AddCategory(api.Category{ID: 2, Name: "Arbeit", OrderIndex: 1})
	s.AddCategory(api.Category{ID: 3, Name: "Ideen", OrderIndex: 2, ShowAll: true})

	for i := 0; i < 24; i++ {
		start := now.Add(-time.Duration(i) * 7 * time.Hour).Truncate(time.Minute)
		e := api.Entry{
			Content:     fmt.Sprintf("%s (#%d)", demoLines[i%len(demoLines)], i+1),
			Start:       start,
			CategoryIDs: []int64{1},
		}
		if i%3 == 0 {
			stop := start.Add(45 * time.Minute)
			e.Stop = &stop
		}
		if i%4 == 1 {
			e.CategoryIDs = append(e.CategoryIDs, 2)
		}
		if i%5 == 2 {
			e.CategoryIDs = append(e.CategoryIDs, 3)
		}
		s.AddEntry(e)
	}
}
