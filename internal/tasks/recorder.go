package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"tweeter/internal/domain"
)

// Enqueuer 是 *asynq.Client 中被用到的那部分
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqActivityRecorder 把 Activity 作为 asynq 任务入队，由 worker 异步写库。
type AsynqActivityRecorder struct {
	client Enqueuer
	queue  string
}

// NewAsynqActivityRecorder 创建 AsynqActivityRecorder 实例
func NewAsynqActivityRecorder(client Enqueuer, queue string) *AsynqActivityRecorder {
	if client == nil {
		panic("asynq client cannot be nil for AsynqActivityRecorder")
	}
	if queue == "" {
		queue = "low"
	}
	return &AsynqActivityRecorder{client: client, queue: queue}
}

// Record 实现 service.ActivityRecorder
func (r *AsynqActivityRecorder) Record(ctx context.Context, activity domain.Activity) error {
	payload, err := NewActivityPersistTask(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity payload: %w", err)
	}
	task := asynq.NewTask(TypeActivityPersist, payload)
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(r.queue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TypeActivityPersist, err)
	}
	return nil
}
