package operations

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/api"
)

// CategoryLister is the part of the backend the category bar needs
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]api.Category, error)
	BaseURL() string
}

// CategoriesLoadedMsg carries the category list or a user-facing failure
type CategoriesLoadedMsg struct {
	Categories []api.Category
	Message    string
	Success    bool
	Error      error
}

// LoadCategories fetches and orders the categories
func LoadCategories(ctx context.Context, lister CategoryLister) tea.Cmd {
	return func() tea.Msg {
		categories, err := lister.ListCategories(ctx)
		if err != nil {
			return CategoriesLoadedMsg{
				Message: categoriesFailure(lister.BaseURL(), err),
				Error:   err,
			}
		}
		api.SortCategories(categories)
		return CategoriesLoadedMsg{
			Categories: categories,
			Message:    fmt.Sprintf("%d Kategorien geladen", len(categories)),
			Success:    true,
		}
	}
}

func categoriesFailure(baseURL string, err error) string {
	reason := "keine Verbindung"
	var status *api.StatusError
	switch {
	case errors.As(err, &status):
		reason = fmt.Sprintf("HTTP %d", status.StatusCode)
	case errors.Is(err, api.ErrBreakerOpen):
		reason = "Backend antwortet wiederholt nicht"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "Zeitüberschreitung"
	}
	return fmt.Sprintf("Fehler beim Laden der Kategorien von %s (%s). Ist das Backend gestartet?", baseURL, reason)
}
