package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tweeter/internal/domain"
)

// GormActivityRepository 是 ActivityRepository 接口的 GORM 实现
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository 创建 GormActivityRepository 实例
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	if db == nil {
		panic("database connection cannot be nil for GormActivityRepository")
	}
	return &GormActivityRepository{db: db}
}

// SaveBatch 实现批量保存审计记录
// GORM 的 Create 方法支持传入切片进行批量插入
func (r *GormActivityRepository) SaveBatch(ctx context.Context, activities []domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&activities).Error; err != nil {
		return fmt.Errorf("gorm: failed to save activity batch (size %d): %w", len(activities), err)
	}
	return nil
}

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ListByActor 实现按用户查询最近的审计记录，limit 被限制在 [1, 200]
func (r *GormActivityRepository) ListByActor(ctx context.Context, actorID uint, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	activities := make([]domain.Activity, 0)
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list activities for actor %d: %w", actorID, err)
	}
	return activities, nil
}
