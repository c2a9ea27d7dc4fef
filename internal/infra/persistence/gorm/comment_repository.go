package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

// FindByID 实现根据 ID 查找评论
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("gorm: find comment by id %d: %w", id, err)
	}
	return &comment, nil
}

// Create 插入新评论。Tweet 或作者不存在时返回 ErrForeignKeyViolation。
func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("gorm: create comment on tweet %d: %w", comment.TweetID, repository.ErrForeignKeyViolation)
		}
		return fmt.Errorf("gorm: create comment (tweet: %d, author: %d): %w", comment.TweetID, comment.AuthorID, err)
	}
	return nil
}

// Update 只更新 text 列
func (r *GormCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Comment{ID: comment.ID}).
		Update("text", comment.Text)
	if result.Error != nil {
		return fmt.Errorf("gorm: update comment %d: %w", comment.ID, result.Error)
	}
	return nil
}

// Delete 删除评论
func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete comment %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}
