package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/service"
	"go.uber.org/zap"
)

func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	post, err := w.ps.Get(ctx, payload.PostID, service.SystemActor)
	if errors.Is(err, service.ErrNotFound) {
		w.log.Info("post gone before publishing", zap.String("post_id", payload.PostID))
		return nil
	}
	if err != nil {
		return err
	}

	// rescheduling enqueues a fresh task, so a stale date means this one is obsolete
	if post.Date != payload.Date {
		w.log.Info("publish task superseded",
			zap.String("post_id", post.ID),
			zap.String("task_date", payload.Date),
			zap.String("post_date", post.Date))
		return nil
	}

	if err := w.ps.PublishDue(ctx, post.ID); err != nil {
		w.log.Error("publish failed", zap.String("post_id", post.ID), zap.Error(err))
		return err
	}
	return nil
}
