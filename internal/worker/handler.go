package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
	"tweeter/internal/tasks"
)

// ActivityPersistHandler 处理 Activity 持久化任务
type ActivityPersistHandler struct {
	activityRepo repository.ActivityRepository
}

// NewActivityPersistHandler 创建 Handler 实例
func NewActivityPersistHandler(activityRepo repository.ActivityRepository) *ActivityPersistHandler {
	return &ActivityPersistHandler{activityRepo: activityRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ActivityPersistHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
	logCtx.Debug("Processing activity persistence task...")

	var payload tasks.ActivityPersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		// payload 损坏重试也没用
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Activity.Verb == "" {
		logCtx.Error("Activity payload has no verb")
		return fmt.Errorf("activity payload has no verb: %w", asynq.SkipRetry)
	}

	if err := h.activityRepo.SaveBatch(ctx, []domain.Activity{payload.Activity}); err != nil {
		logCtx.WithError(err).Errorf("Failed to save activity %s", payload.Activity.Verb)
		return fmt.Errorf("failed to save activity %s: %w", payload.Activity.Verb, err)
	}

	logCtx.WithFields(logrus.Fields{
		"verb":      payload.Activity.Verb,
		"actor_id":  payload.Activity.ActorID,
		"target_id": payload.Activity.TargetID,
	}).Info("Activity persisted")
	return nil
}
