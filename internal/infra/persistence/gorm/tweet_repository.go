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

// GormTweetRepository 是 TweetRepository 接口的 GORM 实现
type GormTweetRepository struct {
	db *gorm.DB
}

// NewGormTweetRepository 创建 GormTweetRepository 实例
func NewGormTweetRepository(db *gorm.DB) *GormTweetRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTweetRepository")
	}
	return &GormTweetRepository{db: db}
}

// withRelations 预加载作者和评论 (评论按 id 升序，并带上评论作者)
func (r *GormTweetRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.Author")
}

// FindByID 实现根据 ID 查找 Tweet
func (r *GormTweetRepository) FindByID(ctx context.Context, id uint) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.withRelations(ctx).First(&tweet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTweetNotFound
		}
		return nil, fmt.Errorf("gorm: find tweet by id %d: %w", id, err)
	}
	return &tweet, nil
}

// List 实现获取全部 Tweet (最新的在前)
func (r *GormTweetRepository) List(ctx context.Context) ([]domain.Tweet, error) {
	tweets := make([]domain.Tweet, 0)
	if err := r.withRelations(ctx).Order("tweets.id DESC").Find(&tweets).Error; err != nil {
		return nil, fmt.Errorf("gorm: list tweets: %w", err)
	}
	return tweets, nil
}

// ListByAuthor 实现获取指定作者的 Tweet
func (r *GormTweetRepository) ListByAuthor(ctx context.Context, authorID uint) ([]domain.Tweet, error) {
	tweets := make([]domain.Tweet, 0)
	err := r.withRelations(ctx).
		Where("tweets.author_id = ?", authorID).
		Order("tweets.id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list tweets by author %d: %w", authorID, err)
	}
	return tweets, nil
}

// Create 插入新 Tweet，不写入任何关联
func (r *GormTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(tweet).Error; err != nil {
		return fmt.Errorf("gorm: create tweet (author: %d): %w", tweet.AuthorID, err)
	}
	return nil
}

// Update 只写 title 和 text 两列，author_id 和 created_at 永远不会被修改
func (r *GormTweetRepository) Update(ctx context.Context, tweet *domain.Tweet) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Tweet{ID: tweet.ID}).
		Select("title", "text").
		Updates(map[string]interface{}{"title": tweet.Title, "text": tweet.Text})
	if result.Error != nil {
		return fmt.Errorf("gorm: update tweet %d: %w", tweet.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL 在值未变化时也会返回 0，这里再确认一次记录是否存在
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Tweet{}).Where("id = ?", tweet.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("gorm: check tweet %d exists: %w", tweet.ID, err)
		}
		if count == 0 {
			return repository.ErrTweetNotFound
		}
	}
	return nil
}

// Delete 在一个事务中删除评论和 Tweet。
// 外键上也声明了 ON DELETE CASCADE，这里显式删除是为了不依赖具体数据库的外键设置。
func (r *GormTweetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return fmt.Errorf("gorm: delete comments of tweet %d: %w", id, err)
		}
		result := tx.Delete(&domain.Tweet{}, id)
		if result.Error != nil {
			return fmt.Errorf("gorm: delete tweet %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrTweetNotFound
		}
		return nil
	})
}
