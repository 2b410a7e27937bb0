package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
	Date   string `json:"date"`
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler turns Scheduled posts into delayed publish tasks.
type Scheduler struct {
	client Enqueuer
	loc    *time.Location
	log    *zap.Logger
}

var _ service.PublishScheduler = (*Scheduler)(nil)

func NewScheduler(client Enqueuer, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		client: client,
		loc:    loc,
		log:    logging.WithComponent("publish-scheduler"),
	}
}

// Worker consumes publish tasks.
type Worker struct {
	ps  service.PostService
	log *zap.Logger
}

func NewWorker(ps service.PostService) *Worker {
	return &Worker{
		ps:  ps,
		log: logging.WithComponent("publish-worker"),
	}
}

func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishPost, w.HandlePublishPostTask)
}
