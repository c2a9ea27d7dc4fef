package gormpersistence_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tweeter/internal/domain"
	gormpersistence "tweeter/internal/infra/persistence/gorm"
	"tweeter/internal/infra/setup"
	"tweeter/internal/repository"
)

// newTestDB 为每个测试创建独立的内存 SQLite 数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := setup.InitSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *gormpersistence.GormUserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Password: "hashed", Email: username + "@example.com"}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice")

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byID, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormUserRepository(db)

	createUser(t, repo, "alice")
	err := repo.Create(context.Background(), &domain.User{Username: "alice", Password: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry, "第二次创建同名用户应失败")
}

func TestTweetRepository_CreateLoadsRelations(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	tweets := gormpersistence.NewGormTweetRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	tweet := &domain.Tweet{Title: "hi", Text: "world", AuthorID: alice.ID}
	require.NoError(t, tweets.Create(ctx, tweet))
	assert.False(t, tweet.CreatedAt.IsZero(), "created_at 应由存储层填充")

	require.NoError(t, comments.Create(ctx, &domain.Comment{Text: "first", AuthorID: bob.ID, TweetID: tweet.ID}))
	require.NoError(t, comments.Create(ctx, &domain.Comment{Text: "second", AuthorID: alice.ID, TweetID: tweet.ID}))

	loaded, err := tweets.FindByID(ctx, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Author.Username)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, "first", loaded.Comments[0].Text)
	assert.Equal(t, "bob", loaded.Comments[0].Author.Username)
	assert.Equal(t, "alice", loaded.Comments[1].Author.Username)
}

func TestTweetRepository_UpdateKeepsAuthorAndCreatedAt(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	tweets := gormpersistence.NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	tweet := &domain.Tweet{Title: "hi", Text: "world", AuthorID: alice.ID}
	require.NoError(t, tweets.Create(ctx, tweet))
	original, err := tweets.FindByID(ctx, tweet.ID)
	require.NoError(t, err)

	// 即使调用方篡改了 AuthorID 和 CreatedAt，也只会写入 title/text
	tampered := &domain.Tweet{
		ID:        tweet.ID,
		Title:     "edited",
		Text:      "changed",
		AuthorID:  bob.ID,
		CreatedAt: time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, tweets.Update(ctx, tampered))

	reloaded, err := tweets.FindByID(ctx, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded.Title)
	assert.Equal(t, "changed", reloaded.Text)
	assert.Equal(t, alice.ID, reloaded.AuthorID)
	assert.True(t, original.CreatedAt.Equal(reloaded.CreatedAt))

	err = tweets.Update(ctx, &domain.Tweet{ID: 4242, Title: "x", Text: "y"})
	assert.ErrorIs(t, err, repository.ErrTweetNotFound)
}

func TestTweetRepository_DeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	tweets := gormpersistence.NewGormTweetRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	doomed := &domain.Tweet{Title: "a", Text: "b", AuthorID: alice.ID}
	kept := &domain.Tweet{Title: "c", Text: "d", AuthorID: alice.ID}
	require.NoError(t, tweets.Create(ctx, doomed))
	require.NoError(t, tweets.Create(ctx, kept))
	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &domain.Comment{Text: "x", AuthorID: alice.ID, TweetID: doomed.ID}))
	}
	require.NoError(t, comments.Create(ctx, &domain.Comment{Text: "y", AuthorID: alice.ID, TweetID: kept.ID}))

	require.NoError(t, tweets.Delete(ctx, doomed.ID))

	var orphans int64
	require.NoError(t, db.Model(&domain.Comment{}).Where("tweet_id = ?", doomed.ID).Count(&orphans).Error)
	assert.Zero(t, orphans, "删除 Tweet 后不应残留评论")

	var remaining int64
	require.NoError(t, db.Model(&domain.Comment{}).Where("tweet_id = ?", kept.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err := tweets.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repository.ErrTweetNotFound)
	assert.ErrorIs(t, tweets.Delete(ctx, doomed.ID), repository.ErrTweetNotFound)
}

func TestTweetRepository_ListAndListByAuthor(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	tweets := gormpersistence.NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	require.NoError(t, tweets.Create(ctx, &domain.Tweet{Title: "1", Text: "a", AuthorID: alice.ID}))
	require.NoError(t, tweets.Create(ctx, &domain.Tweet{Title: "2", Text: "b", AuthorID: bob.ID}))
	require.NoError(t, tweets.Create(ctx, &domain.Tweet{Title: "3", Text: "c", AuthorID: alice.ID}))

	all, err := tweets.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].Title, "最新的 Tweet 应排在最前")

	mine, err := tweets.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, tw := range mine {
		assert.Equal(t, alice.ID, tw.AuthorID)
		assert.Equal(t, "alice", tw.Author.Username)
		assert.NotNil(t, tw.Comments)
	}

	none, err := tweets.ListByAuthor(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCommentRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	tweets := gormpersistence.NewGormTweetRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	tweet := &domain.Tweet{Title: "t", Text: "x", AuthorID: alice.ID}
	require.NoError(t, tweets.Create(ctx, tweet))
	comment := &domain.Comment{Text: "before", AuthorID: alice.ID, TweetID: tweet.ID}
	require.NoError(t, comments.Create(ctx, comment))

	require.NoError(t, comments.Update(ctx, &domain.Comment{ID: comment.ID, Text: "after", AuthorID: 999, TweetID: 999}))
	loaded, err := comments.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", loaded.Text)
	assert.Equal(t, alice.ID, loaded.AuthorID)
	assert.Equal(t, tweet.ID, loaded.TweetID)
	assert.Equal(t, "alice", loaded.Author.Username)

	require.NoError(t, comments.Delete(ctx, comment.ID))
	_, err = comments.FindByID(ctx, comment.ID)
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)
	assert.ErrorIs(t, comments.Delete(ctx, comment.ID), repository.ErrCommentNotFound)
}

func TestCommentRepository_RejectsDanglingTweet(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)

	alice := createUser(t, users, "alice")
	err := comments.Create(context.Background(), &domain.Comment{Text: "x", AuthorID: alice.ID, TweetID: 12345})
	assert.ErrorIs(t, err, repository.ErrForeignKeyViolation, "外键约束应拒绝指向不存在 Tweet 的评论")
}

func TestActivityRepository_SaveBatchAndList(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormActivityRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.SaveBatch(ctx, nil))
	require.NoError(t, repo.SaveBatch(ctx, []domain.Activity{
		{ActorID: 1, Verb: domain.VerbTweetCreated, TargetID: 10, OccurredAt: now.Add(-time.Minute)},
		{ActorID: 1, Verb: domain.VerbTweetUpdated, TargetID: 10, OccurredAt: now},
		{ActorID: 2, Verb: domain.VerbCommentCreated, TargetID: 3, OccurredAt: now},
	}))

	list, err := repo.ListByActor(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.VerbTweetUpdated, list[0].Verb)

	limited, err := repo.ListByActor(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestActivityRepository_ListByActorCapsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormActivityRepository(db)
	ctx := context.Background()

	batch := make([]domain.Activity, 0, 250)
	now := time.Now()
	for i := 0; i < 250; i++ {
		batch = append(batch, domain.Activity{ActorID: 1, Verb: domain.VerbTweetCreated, TargetID: uint(i + 1), OccurredAt: now})
	}
	require.NoError(t, repo.SaveBatch(ctx, batch))

	list, err := repo.ListByActor(ctx, 1, 100000000)
	require.NoError(t, err)
	assert.Len(t, list, 200)

	list, err = repo.ListByActor(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
