package job

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
)

type recordingScheduler struct {
	mu   sync.Mutex
	seen []string
	fail map[string]bool
}

func (r *recordingScheduler) SchedulePublish(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, post.ID)
	if r.fail[post.ID] {
		return errors.New("redis down")
	}
	return nil
}

func TestSweepOffersOnlyScheduledPosts(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	ctx := context.Background()
	for id, status := range map[string]models.Status{
		"s1": models.StatusScheduled,
		"s2": models.StatusScheduled,
		"d1": models.StatusDraft,
		"p1": models.StatusPublished,
	} {
		repo.Insert(ctx, &models.Post{ID: id, Status: status, Date: "2026-03-10"})
	}

	sched := &recordingScheduler{fail: map[string]bool{"s2": true}}
	failed := NewPublishSweepJob(repo, sched).Sweep(ctx)

	sort.Strings(sched.seen)
	if len(sched.seen) != 2 || sched.seen[0] != "s1" || sched.seen[1] != "s2" {
		t.Errorf("scheduled = %v, want [s1 s2]", sched.seen)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}
