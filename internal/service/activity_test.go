package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tweeter/internal/domain"
	"tweeter/internal/repository/mocks"
	"tweeter/internal/service"
)

func TestActivityService_ListMine(t *testing.T) {
	repo := new(mocks.ActivityRepository)
	svc := service.NewActivityService(repo)
	ctx := context.Background()
	want := []domain.Activity{{ActorID: 1, Verb: domain.VerbTweetCreated, TargetID: 7}}
	repo.On("ListByActor", ctx, uint(1), 20).Return(want, nil).Once()

	got, err := svc.ListMine(ctx, domain.Actor{UserID: 1}, 20)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestActivityService_ListMine_Errors(t *testing.T) {
	repo := new(mocks.ActivityRepository)
	svc := service.NewActivityService(repo)
	ctx := context.Background()

	_, err := svc.ListMine(ctx, domain.Actor{}, 10)
	assert.ErrorIs(t, err, service.ErrAuthenticationRequired)

	repo.On("ListByActor", ctx, uint(2), 10).Return(nil, errors.New("db down")).Once()
	_, err = svc.ListMine(ctx, domain.Actor{UserID: 2}, 10)
	assert.ErrorIs(t, err, service.ErrInternalServer)
	repo.AssertExpectations(t)
}

func TestRepositoryRecorder_SavesSingleActivity(t *testing.T) {
	repo := new(mocks.ActivityRepository)
	ctx := context.Background()
	activity := domain.Activity{ActorID: 3, Verb: domain.VerbCommentDeleted, TargetID: 9}
	repo.On("SaveBatch", ctx, mock.MatchedBy(func(batch []domain.Activity) bool {
		return len(batch) == 1 && batch[0] == activity
	})).Return(nil).Once()

	err := service.RepositoryRecorder{Repo: repo}.Record(ctx, activity)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
