package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
)

// TweetChanges 描述一次 Tweet 更新，nil 字段保持原值。
type TweetChanges struct {
	Title *string
	Text  *string
}

// TweetService 负责 Tweet 的业务逻辑。
type TweetService struct {
	tweetRepo repository.TweetRepository
	policy    Policy
	recorder  ActivityRecorder
}

// NewTweetService 创建 TweetService 实例。
func NewTweetService(tweetRepo repository.TweetRepository, policy Policy, recorder ActivityRecorder) *TweetService {
	if tweetRepo == nil {
		panic("TweetRepository cannot be nil for TweetService")
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &TweetService{tweetRepo: tweetRepo, policy: policy, recorder: recorder}
}

// Create 以 actor 为作者创建 Tweet。
func (s *TweetService) Create(ctx context.Context, actor domain.Actor, title, text string) (*domain.Tweet, error) {
	logCtx := logrus.WithField("user_id", actor.UserID)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, OpCreateTweet, 0); err != nil {
		return nil, err
	}

	tweet := &domain.Tweet{Title: title, Text: text, AuthorID: actor.UserID}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		logCtx.WithError(err).Error("Failed to save new tweet")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("tweet_id", tweet.ID)
	logCtx.Info("Tweet created successfully")
	recordActivity(ctx, s.recorder, actor.UserID, domain.VerbTweetCreated, tweet.ID)

	// 重新加载以带上作者和评论
	return s.load(ctx, tweet.ID)
}

// List 返回所有 Tweet。
func (s *TweetService) List(ctx context.Context, actor domain.Actor) ([]domain.Tweet, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}
	tweets, err := s.tweetRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list tweets")
		return nil, ErrInternalServer
	}
	return tweets, nil
}

// Feed 返回 actor 自己发布的 Tweet。
func (s *TweetService) Feed(ctx context.Context, actor domain.Actor) ([]domain.Tweet, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}
	tweets, err := s.tweetRepo.ListByAuthor(ctx, actor.UserID)
	if err != nil {
		logrus.WithField("user_id", actor.UserID).WithError(err).Error("Failed to load user feed")
		return nil, ErrInternalServer
	}
	return tweets, nil
}

// Get 根据 ID 返回 Tweet。
func (s *TweetService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.Tweet, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}
	return s.load(ctx, id)
}

// Update 修改 Tweet 的标题和/或正文，只有作者可以修改。作者和创建时间不会改变。
func (s *TweetService) Update(ctx context.Context, actor domain.Actor, id uint, changes TweetChanges) (*domain.Tweet, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "tweet_id": id})

	if changes.Title != nil {
		if err := validateTitle(*changes.Title); err != nil {
			return nil, err
		}
	}
	if changes.Text != nil {
		if err := validateText(*changes.Text); err != nil {
			return nil, err
		}
	}
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	tweet, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, OpUpdateTweet, tweet.AuthorID); err != nil {
		logCtx.WithError(err).Warn("Tweet update denied")
		return nil, err
	}

	if changes.Title != nil {
		tweet.Title = *changes.Title
	}
	if changes.Text != nil {
		tweet.Text = *changes.Text
	}
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		logCtx.WithError(err).Error("Failed to update tweet")
		return nil, ErrInternalServer
	}
	logCtx.Info("Tweet updated successfully")
	recordActivity(ctx, s.recorder, actor.UserID, domain.VerbTweetUpdated, tweet.ID)
	return tweet, nil
}

// Delete 删除 Tweet 及其全部评论。
func (s *TweetService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "tweet_id": id})

	if !actor.Authenticated() {
		return ErrAuthenticationRequired
	}
	tweet, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, OpDeleteTweet, tweet.AuthorID); err != nil {
		logCtx.WithError(err).Warn("Tweet deletion denied")
		return err
	}

	if err := s.tweetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return ErrTweetNotFound
		}
		logCtx.WithError(err).Error("Failed to delete tweet")
		return ErrInternalServer
	}
	logCtx.WithField("comments", len(tweet.Comments)).Info("Tweet deleted successfully")
	recordActivity(ctx, s.recorder, actor.UserID, domain.VerbTweetDeleted, id)
	return nil
}

// CanDelete 报告 actor 是否是 Tweet 的作者，用于前端决定是否显示删除按钮。
func (s *TweetService) CanDelete(ctx context.Context, actor domain.Actor, id uint) (bool, error) {
	if !actor.Authenticated() {
		return false, ErrAuthenticationRequired
	}
	tweet, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	return IsAuthor(actor, tweet.AuthorID), nil
}

func (s *TweetService) load(ctx context.Context, id uint) (*domain.Tweet, error) {
	tweet, err := s.tweetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		logrus.WithField("tweet_id", id).WithError(err).Error("Repository error loading tweet")
		return nil, ErrInternalServer
	}
	if tweet == nil {
		return nil, ErrTweetNotFound
	}
	return tweet, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title may not be blank", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, domain.TitleMaxLength)
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text may not be blank", ErrInvalidInput)
	}
	return nil
}
