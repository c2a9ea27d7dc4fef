package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweeter/internal/domain"
	"tweeter/internal/tasks"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

func TestAsynqActivityRecorder_Record(t *testing.T) {
	enq := &fakeEnqueuer{}
	recorder := tasks.NewAsynqActivityRecorder(enq, "")
	activity := domain.Activity{ActorID: 1, Verb: domain.VerbTweetCreated, TargetID: 10, OccurredAt: time.Now()}

	require.NoError(t, recorder.Record(context.Background(), activity))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypeActivityPersist, enq.tasks[0].Type())
	var payload tasks.ActivityPersistPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, domain.VerbTweetCreated, payload.Activity.Verb)
	assert.Equal(t, uint(10), payload.Activity.TargetID)
}

func TestAsynqActivityRecorder_EnqueueError(t *testing.T) {
	recorder := tasks.NewAsynqActivityRecorder(&fakeEnqueuer{err: errors.New("redis down")}, "low")
	err := recorder.Record(context.Background(), domain.Activity{Verb: domain.VerbTweetDeleted})
	assert.Error(t, err)
}
