package job

import (
	"context"
	"sync"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

const sweepConcurrency = 10

// PublishSweepJob re-offers every Scheduled post to the scheduler, recovering
// publish tasks lost while the queue was unreachable.
type PublishSweepJob struct {
	pr    repository.PostRepository
	sched service.PublishScheduler
	log   *zap.Logger
}

func NewPublishSweepJob(pr repository.PostRepository, sched service.PublishScheduler) *PublishSweepJob {
	return &PublishSweepJob{
		pr:    pr,
		sched: sched,
		log:   logging.WithComponent("publish-sweep"),
	}
}

// Run matches the cron.FuncJob signature.
func (j *PublishSweepJob) Run() {
	j.Sweep(context.Background())
}

// Sweep returns how many posts could not be handed to the scheduler.
func (j *PublishSweepJob) Sweep(ctx context.Context) int {
	posts, err := j.pr.ListByStatus(ctx, models.StatusScheduled)
	if err != nil {
		j.log.Error("list scheduled posts", zap.Error(err))
		return 0
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	semaphore := make(chan struct{}, sweepConcurrency)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.sched.SchedulePublish(ctx, post); err != nil {
				j.log.Warn("sweep could not schedule post", zap.String("post_id", post.ID), zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(post)
	}
	wg.Wait()

	j.log.Debug("sweep finished", zap.Int("scheduled", len(posts)), zap.Int("failed", failed))
	return failed
}
