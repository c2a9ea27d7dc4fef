package repository

import (
	"context"

	"tweeter/internal/domain"
)

// ActivityRepository 定义了审计记录的存储操作。
type ActivityRepository interface {
	// SaveBatch 批量保存 Activity 记录。
	SaveBatch(ctx context.Context, activities []domain.Activity) error

	// ListByActor 返回指定用户最近的操作记录，最新的在前。
	ListByActor(ctx context.Context, actorID uint, limit int) ([]domain.Activity, error)
}
