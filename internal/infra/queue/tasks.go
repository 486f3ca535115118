// Package queue carries admin notifications through asynq so a slow or
// failing mail server never blocks a submission.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vo-directory/internal/gateway"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const TypeArtistSubmitted = "artist:submitted"

type ArtistSubmittedPayload struct {
	ArtistName string `json:"artist_name"`
	ArtistID   string `json:"artist_id"`
}

func NewArtistSubmittedTask(name, id string) (*asynq.Task, error) {
	payload, err := json.Marshal(ArtistSubmittedPayload{ArtistName: name, ArtistID: id})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeArtistSubmitted, payload,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

// Enqueuer is the subset of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier implements gateway.Notifier by enqueueing a task for the
// worker.
type AsynqNotifier struct {
	client Enqueuer
}

var _ gateway.Notifier = (*AsynqNotifier)(nil)

func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) NotifyArtistSubmitted(ctx context.Context, artistName, artistID string) error {
	task, err := NewArtistSubmittedTask(artistName, artistID)
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeArtistSubmitted, err)
	}
	log.Debug().Str("task_id", info.ID).Str("artist_id", artistID).Msg("artist submission notification queued")
	return nil
}

// LogNotifier is used when no Redis is configured.
type LogNotifier struct{}

var _ gateway.Notifier = LogNotifier{}

func (LogNotifier) NotifyArtistSubmitted(ctx context.Context, artistName, artistID string) error {
	log.Info().Str("artist_id", artistID).Str("artist_name", artistName).Msg("new artist submitted (no queue configured)")
	return nil
}
