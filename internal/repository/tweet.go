package repository

import (
	"context"

	"tweeter/internal/domain"
)

// TweetRepository 定义了 Tweet 的存储操作。
// 读取方法返回的 Tweet 已加载 Author 和 Comments (含评论作者)。
type TweetRepository interface {
	// FindByID 根据 ID 查找 Tweet，不存在时返回 ErrTweetNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Tweet, error)

	// List 返回所有 Tweet，按创建顺序倒序。
	List(ctx context.Context) ([]domain.Tweet, error)

	// ListByAuthor 返回指定作者的所有 Tweet。
	ListByAuthor(ctx context.Context, authorID uint) ([]domain.Tweet, error)

	// Create 插入新的 Tweet，ID 与 CreatedAt 由存储层填充。
	Create(ctx context.Context, tweet *domain.Tweet) error

	// Update 只更新 title 和 text，作者与创建时间保持不变。
	Update(ctx context.Context, tweet *domain.Tweet) error

	// Delete 在同一事务中删除 Tweet 及其所有评论。
	Delete(ctx context.Context, id uint) error
}
