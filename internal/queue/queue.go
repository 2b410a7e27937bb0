package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
	"go.uber.org/zap"
)

func taskID(post *models.Post) string {
	return fmt.Sprintf("publish:%s:%s", post.ID, post.Date)
}

// SchedulePublish enqueues a publish task due at the post's date. A task
// already queued for the same post and date is left alone.
func (s *Scheduler) SchedulePublish(ctx context.Context, post *models.Post) error {
	at, err := service.ParseDate(post.Date, s.loc)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(PublishPostPayload{PostID: post.ID, Date: post.Date})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypePublishPost, payload)

	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessAt(at), asynq.TaskID(taskID(post)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info("publish scheduled", zap.String("post_id", post.ID), zap.Time("at", at))
	return nil
}
