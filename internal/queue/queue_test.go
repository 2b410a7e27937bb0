package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
)

type enqueued struct {
	task      *asynq.Task
	processAt time.Time
	id        string
}

type fakeEnqueuer struct {
	tasks []enqueued
	ids   map[string]bool
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e := enqueued{task: task}
	for _, opt := range opts {
		switch opt.Type() {
		case asynq.ProcessAtOpt:
			e.processAt = opt.Value().(time.Time)
		case asynq.TaskIDOpt:
			e.id = opt.Value().(string)
		}
	}
	if f.ids == nil {
		f.ids = make(map[string]bool)
	}
	if f.ids[e.id] {
		return nil, asynq.ErrTaskIDConflict
	}
	f.ids[e.id] = true
	f.tasks = append(f.tasks, e)
	return &asynq.TaskInfo{ID: e.id}, nil
}

func TestSchedulePublish(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	client := &fakeEnqueuer{}
	s := NewScheduler(client, berlin)
	ctx := context.Background()

	post := &models.Post{ID: "p1", Date: "2026-03-10 14:30"}
	if err := s.SchedulePublish(ctx, post); err != nil {
		t.Fatalf("SchedulePublish() error = %v", err)
	}
	if err := s.SchedulePublish(ctx, post); err != nil {
		t.Fatalf("duplicate SchedulePublish() error = %v", err)
	}
	if len(client.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(client.tasks))
	}

	got := client.tasks[0]
	if got.task.Type() != TaskTypePublishPost {
		t.Errorf("task type = %s", got.task.Type())
	}
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, berlin)
	if !got.processAt.Equal(want) {
		t.Errorf("processAt = %v, want %v", got.processAt, want)
	}
	var payload PublishPostPayload
	if err := json.Unmarshal(got.task.Payload(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.PostID != "p1" || payload.Date != "2026-03-10 14:30" {
		t.Errorf("payload = %+v", payload)
	}

	post.Date = "2026-03-11"
	if err := s.SchedulePublish(ctx, post); err != nil {
		t.Fatal(err)
	}
	if len(client.tasks) != 2 {
		t.Errorf("rescheduled date should enqueue a new task, have %d", len(client.tasks))
	}
}

func TestSchedulePublishRejectsBadDate(t *testing.T) {
	s := NewScheduler(&fakeEnqueuer{}, nil)
	if err := s.SchedulePublish(context.Background(), &models.Post{ID: "p1", Date: "next week"}); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestHandlePublishPostTask(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	client := &fakeEnqueuer{}
	ps := service.NewPostService(repo, service.WithPublishScheduler(NewScheduler(client, time.UTC)))
	w := NewWorker(ps)
	ctx := context.Background()

	admin := models.Actor{ID: "u1", Name: "Ada", Role: models.RoleAgencyAdmin}
	posts, err := ps.Create(ctx, models.PostDraft{
		Client:   "Acme",
		Campaign: "Spring",
		Date:     "2026-03-10",
		Caption:  "Launch day",
		MediaURL: "http://x/img.png",
		Status:   models.StatusScheduled,
	}, []models.Platform{models.PlatformInstagram}, admin)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(client.tasks) != 1 {
		t.Fatalf("Create(Scheduled) enqueued %d tasks, want 1", len(client.tasks))
	}
	id := posts[0].ID

	stale, _ := json.Marshal(PublishPostPayload{PostID: id, Date: "2026-03-01"})
	if err := w.HandlePublishPostTask(ctx, asynq.NewTask(TaskTypePublishPost, stale)); err != nil {
		t.Fatalf("stale task error = %v", err)
	}
	if p, _, _ := repo.GetByID(ctx, id); p.Status != models.StatusScheduled {
		t.Errorf("stale task changed status to %s", p.Status)
	}

	if err := w.HandlePublishPostTask(ctx, client.tasks[0].task); err != nil {
		t.Fatalf("HandlePublishPostTask() error = %v", err)
	}
	p, _, _ := repo.GetByID(ctx, id)
	if p.Status != models.StatusPublished {
		t.Errorf("status = %s, want Published", p.Status)
	}
	if p.History[0].By != service.SystemActor.Name {
		t.Errorf("newest history by %q, want %q", p.History[0].By, service.SystemActor.Name)
	}

	gone, _ := json.Marshal(PublishPostPayload{PostID: "missing", Date: "2026-03-10"})
	if err := w.HandlePublishPostTask(ctx, asynq.NewTask(TaskTypePublishPost, gone)); err != nil {
		t.Errorf("missing post should be dropped, got %v", err)
	}
}
