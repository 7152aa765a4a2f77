package drafts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nickpending/voicejournal/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	start := time.UnixMilli(1704103200000)
	stop := time.UnixMilli(1704106800000)
	in := api.EntryInput{Content: "Entwurf", Start: start, Stop: &stop, CategoryIDs: []int64{1, 4}}

	if err := store.Save(ctx, 7, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected draft for entry 7")
	}
	if got.Input.Content != "Entwurf" || !got.Input.Start.Equal(start) {
		t.Errorf("draft = %+v", got.Input)
	}
	if got.Input.Stop == nil || !got.Input.Stop.Equal(stop) {
		t.Errorf("stop = %v", got.Input.Stop)
	}
	if len(got.Input.CategoryIDs) != 2 || got.Input.CategoryIDs[1] != 4 {
		t.Errorf("categories = %v", got.Input.CategoryIDs)
	}
}

func TestSaveReplacesDraft(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, NewEntryID, api.EntryInput{Content: "eins", Start: time.UnixMilli(1)})
	if err := store.Save(ctx, NewEntryID, api.EntryInput{Content: "zwei", Start: time.UnixMilli(2)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Get(ctx, NewEntryID)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Input.Content != "zwei" || got.Input.Stop != nil {
		t.Errorf("draft = %+v", got.Input)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("expected 1 draft, got %d", n)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected no draft")
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, 3, api.EntryInput{Content: "weg", Start: time.UnixMilli(1)})
	if err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 3); ok {
		t.Error("draft still present after delete")
	}
}

func TestReopenKeepsDrafts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "drafts.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Save(ctx, 5, api.EntryInput{Content: "bleibt", Start: time.UnixMilli(10)})
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	if _, ok, _ := store.Get(ctx, 5); !ok {
		t.Error("draft lost across reopen")
	}
}
