package repository

import (
	"context"

	"tweeter/internal/domain"
)

// CommentRepository 定义了评论的存储操作。
type CommentRepository interface {
	// FindByID 根据 ID 查找评论 (已加载 Author)。
	FindByID(ctx context.Context, id uint) (*domain.Comment, error)

	// Create 插入新评论。
	Create(ctx context.Context, comment *domain.Comment) error

	// Update 只更新评论的 text。
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete 删除评论，不存在时返回 ErrCommentNotFound。
	Delete(ctx context.Context, id uint) error
}
