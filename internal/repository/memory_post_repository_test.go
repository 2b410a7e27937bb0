package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/maheshrc27/contentflow/internal/models"
)

func TestMemoryWriteMerge(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{ID: "p1", Client: "Acme", Caption: "old", MediaURL: "http://x/a.png", Status: models.StatusDraft})

	caption := "new"
	if err := repo.Write(ctx, "p1", &models.PostPatch{Caption: &caption}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, ok, _ := repo.GetByID(ctx, "p1")
	if !ok {
		t.Fatal("post missing after write")
	}
	if got.Caption != "new" {
		t.Errorf("Caption = %q, want %q", got.Caption, "new")
	}
	if got.MediaURL != "http://x/a.png" || got.Status != models.StatusDraft {
		t.Errorf("untouched fields changed: %+v", got)
	}

	if err := repo.Write(ctx, "missing", &models.PostPatch{Caption: &caption}); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Write(missing) error = %v, want ErrPostNotFound", err)
	}
}

func TestMemoryReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{ID: "p1", Client: "Acme"})
	repo.AppendComment(ctx, "p1", models.Comment{ID: "c1", Text: "hi"})

	got, _, _ := repo.GetByID(ctx, "p1")
	got.Comments[0].Text = "mutated"
	got.Client = "Other"

	again, _, _ := repo.GetByID(ctx, "p1")
	if again.Comments[0].Text != "hi" || again.Client != "Acme" {
		t.Errorf("stored post was mutated through a read: %+v", again)
	}
}

func TestMemoryGetAllScope(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{ID: "a", Client: "Acme", CreatedAt: 2})
	repo.Insert(ctx, &models.Post{ID: "b", Client: "Globex", CreatedAt: 1})

	all, _ := repo.GetAll(ctx, "")
	if len(all) != 2 || all[0].ID != "b" {
		t.Errorf("GetAll(\"\") = %v, want both posts oldest first", all)
	}
	acme, _ := repo.GetAll(ctx, "Acme")
	if len(acme) != 1 || acme[0].ID != "a" {
		t.Errorf("GetAll(Acme) = %v, want only a", acme)
	}
}

func TestMemoryWipe(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{ID: "a", Status: models.StatusTrashed})
	repo.Insert(ctx, &models.Post{ID: "b", Status: models.StatusDraft})

	n, _ := repo.Wipe(ctx, true)
	if n != 1 {
		t.Errorf("Wipe(trashedOnly) removed %d, want 1", n)
	}
	n, _ = repo.Wipe(ctx, false)
	if n != 1 {
		t.Errorf("Wipe(all) removed %d, want 1", n)
	}
}

func TestChangeFeed(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	var calls atomic.Int32
	sub := repo.Subscribe(func() { calls.Add(1) })

	repo.Insert(ctx, &models.Post{ID: "a"})
	repo.AppendComment(ctx, "a", models.Comment{ID: "c"})
	if got := calls.Load(); got != 2 {
		t.Errorf("signals = %d, want 2", got)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	repo.Insert(ctx, &models.Post{ID: "b"})
	if got := calls.Load(); got != 2 {
		t.Errorf("signals after unsubscribe = %d, want 2", got)
	}
}

func TestMemoryWriteAppendsToStoredHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{
		ID:      "p1",
		History: []models.HistoryEntry{{ID: "h1", Action: "Asset Deployed"}},
	})

	// two writers built from the same read must both land
	status := models.StatusInReview
	if err := repo.Write(ctx, "p1", &models.PostPatch{
		Status:     &status,
		AddHistory: &models.HistoryEntry{ID: "h2", Action: "Workflow Shift"},
	}); err != nil {
		t.Fatal(err)
	}
	caption := "new"
	if err := repo.Write(ctx, "p1", &models.PostPatch{
		Caption:    &caption,
		AddHistory: &models.HistoryEntry{ID: "h3", Action: "Copy Refined"},
		AddVersion: &models.PostVersion{ID: "v1", Caption: "old"},
	}); err != nil {
		t.Fatal(err)
	}

	got, _, _ := repo.GetByID(ctx, "p1")
	var ids []string
	for _, h := range got.History {
		ids = append(ids, h.ID)
	}
	if len(ids) != 3 || ids[0] != "h3" || ids[1] != "h2" || ids[2] != "h1" {
		t.Errorf("history ids = %v, want [h3 h2 h1]", ids)
	}
	if len(got.Versions) != 1 || got.Versions[0].ID != "v1" {
		t.Errorf("versions = %+v", got.Versions)
	}
}

func TestMemoryInsertManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	repo.Insert(ctx, &models.Post{ID: "b"})

	err := repo.InsertMany(ctx, []*models.Post{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if err == nil {
		t.Fatal("InsertMany() with a taken id should fail")
	}
	for _, id := range []string{"a", "c"} {
		if _, ok, _ := repo.GetByID(ctx, id); ok {
			t.Errorf("post %s stored by a failed InsertMany", id)
		}
	}

	if err := repo.InsertMany(ctx, []*models.Post{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}
	if all, _ := repo.GetAll(ctx, ""); len(all) != 3 {
		t.Errorf("GetAll() = %d posts, want 3", len(all))
	}
}
