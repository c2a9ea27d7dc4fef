package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
)

// CommentService 负责评论的业务逻辑。
type CommentService struct {
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	policy      Policy
	recorder    ActivityRecorder
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(commentRepo repository.CommentRepository, tweetRepo repository.TweetRepository, policy Policy, recorder ActivityRecorder) *CommentService {
	if commentRepo == nil || tweetRepo == nil {
		panic("CommentRepository and TweetRepository cannot be nil for CommentService")
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &CommentService{commentRepo: commentRepo, tweetRepo: tweetRepo, policy: policy, recorder: recorder}
}

// Create 在指定 Tweet 下以 actor 为作者创建评论。
// tweetID 为 0 或指向不存在的 Tweet 都属于输入错误，而不是 NotFound。
func (s *CommentService) Create(ctx context.Context, actor domain.Actor, tweetID uint, text string) (*domain.Comment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "tweet_id": tweetID})

	if err := validateText(text); err != nil {
		return nil, err
	}
	if tweetID == 0 {
		return nil, fmt.Errorf("%w: tweet ID is required", ErrInvalidInput)
	}
	if err := s.policy.Authorize(actor, OpCreateComment, 0); err != nil {
		return nil, err
	}

	if _, err := s.tweetRepo.FindByID(ctx, tweetID); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			logCtx.Warn("Comment rejected: tweet not found")
			return nil, fmt.Errorf("%w: tweet not found", ErrInvalidInput)
		}
		logCtx.WithError(err).Error("Repository error loading tweet for comment")
		return nil, ErrInternalServer
	}

	comment := &domain.Comment{Text: text, AuthorID: actor.UserID, TweetID: tweetID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		// Tweet 可能在检查之后被删除
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			logCtx.WithError(err).Warn("Comment rejected: tweet disappeared before insert")
			return nil, fmt.Errorf("%w: tweet not found", ErrInvalidInput)
		}
		logCtx.WithError(err).Error("Failed to save new comment")
		return nil, ErrInternalServer
	}
	logCtx.WithField("comment_id", comment.ID).Info("Comment created successfully")
	recordActivity(ctx, s.recorder, actor.UserID, domain.VerbCommentCreated, comment.ID)

	return s.load(ctx, comment.ID)
}

// Update 修改评论正文，只有作者可以修改。text 为 nil 时不做修改。
func (s *CommentService) Update(ctx context.Context, actor domain.Actor, id uint, text *string) (*domain.Comment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "comment_id": id})

	if text != nil {
		if err := validateText(*text); err != nil {
			return nil, err
		}
	}
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, OpUpdateComment, comment.AuthorID); err != nil {
		logCtx.WithError(err).Warn("Comment update denied")
		return nil, err
	}

	if text != nil {
		comment.Text = *text
		if err := s.commentRepo.Update(ctx, comment); err != nil {
			logCtx.WithError(err).Error("Failed to update comment")
			return nil, ErrInternalServer
		}
		logCtx.Info("Comment updated successfully")
		recordActivity(ctx, s.recorder, actor.UserID, domain.VerbCommentUpdated, comment.ID)
	}
	return comment, nil
}

// Delete 删除评论，只有作者可以删除。
func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "comment_id": id})

	if !actor.Authenticated() {
		return ErrAuthenticationRequired
	}
	comment, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, OpDeleteComment, comment.AuthorID); err != nil {
		logCtx.WithError(err).Warn("Comment deletion denied")
		return err
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		logCtx.WithError(err).Error("Failed to delete comment")
		return ErrInternalServer
	}
	logCtx.Info("Comment deleted successfully")
	recordActivity(ctx, s.recorder, actor.UserID, domain.VerbCommentDeleted, id)
	return nil
}

func (s *CommentService) load(ctx context.Context, id uint) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		logrus.WithField("comment_id", id).WithError(err).Error("Repository error loading comment")
		return nil, ErrInternalServer
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
