package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"vo-directory/internal/infra/email"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestAsynqNotifierEnqueues(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewAsynqNotifier(q)

	require.NoError(t, n.NotifyArtistSubmitted(context.Background(), "Jane Doe", "artist-1"))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeArtistSubmitted, q.tasks[0].Type())

	var p ArtistSubmittedPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, ArtistSubmittedPayload{ArtistName: "Jane Doe", ArtistID: "artist-1"}, p)
}

func TestAsynqNotifierSurfacesEnqueueError(t *testing.T) {
	n := NewAsynqNotifier(&fakeEnqueuer{err: errors.New("redis down")})
	assert.Error(t, n.NotifyArtistSubmitted(context.Background(), "Jane", "artist-1"))
}

func TestArtistSubmittedHandler(t *testing.T) {
	sender := &fakeSender{}
	h := NewArtistSubmittedHandler(sender, "admin@vo.test", "http://vo.test/")

	task, err := NewArtistSubmittedTask("Jane Doe", "artist-1")
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "admin@vo.test", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "http://vo.test/admin/edit/artist-1")
}

func TestArtistSubmittedHandlerBadPayloadSkipsRetry(t *testing.T) {
	h := NewArtistSubmittedHandler(&fakeSender{}, "admin@vo.test", "")
	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeArtistSubmitted, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
