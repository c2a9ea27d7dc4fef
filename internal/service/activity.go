package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
)

// ActivityRecorder 把一次成功的变更交给异步管道记录。
// 记录失败不影响请求结果。
type ActivityRecorder interface {
	Record(ctx context.Context, activity domain.Activity) error
}

// NopRecorder 丢弃所有记录，用于测试或未配置队列时。
type NopRecorder struct{}

// Record 实现 ActivityRecorder
func (NopRecorder) Record(context.Context, domain.Activity) error { return nil }

// RepositoryRecorder 同步写入 activity 表，在没有 Redis 队列时使用
type RepositoryRecorder struct {
	Repo repository.ActivityRepository
}

// Record 实现 ActivityRecorder
func (r RepositoryRecorder) Record(ctx context.Context, activity domain.Activity) error {
	return r.Repo.SaveBatch(ctx, []domain.Activity{activity})
}

func recordActivity(ctx context.Context, recorder ActivityRecorder, actorID uint, verb domain.ActivityVerb, targetID uint) {
	if recorder == nil {
		return
	}
	activity := domain.Activity{
		ActorID:    actorID,
		Verb:       verb,
		TargetID:   targetID,
		OccurredAt: time.Now(),
	}
	if err := recorder.Record(ctx, activity); err != nil {
		logrus.WithFields(logrus.Fields{
			"actor_id":  actorID,
			"verb":      verb,
			"target_id": targetID,
		}).WithError(err).Warn("Failed to record activity")
	}
}

// ActivityService 提供当前用户的操作记录查询
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	if activityRepo == nil {
		panic("ActivityRepository cannot be nil for ActivityService")
	}
	return &ActivityService{activityRepo: activityRepo}
}

// ListMine 返回 actor 最近的操作记录
func (s *ActivityService) ListMine(ctx context.Context, actor domain.Actor, limit int) ([]domain.Activity, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}
	activities, err := s.activityRepo.ListByActor(ctx, actor.UserID, limit)
	if err != nil {
		logrus.WithField("user_id", actor.UserID).WithError(err).Error("Failed to list activities")
		return nil, ErrInternalServer
	}
	return activities, nil
}
