package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vo-directory/internal/infra/email"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ArtistSubmittedHandler mails the fixed admin address.
type ArtistSubmittedHandler struct {
	sender     email.Sender
	adminEmail string
	baseURL    string
}

func NewArtistSubmittedHandler(sender email.Sender, adminEmail, baseURL string) *ArtistSubmittedHandler {
	return &ArtistSubmittedHandler{
		sender:     sender,
		adminEmail: adminEmail,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (h *ArtistSubmittedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ArtistSubmittedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ArtistSubmitted payload")
		// malformed payloads never succeed on retry
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	msg := email.ArtistSubmitted(h.adminEmail, payload.ArtistName, payload.ArtistID,
		h.baseURL+"/admin/edit/"+payload.ArtistID)
	if err := h.sender.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("artist_id", payload.ArtistID).Msg("Failed to send submission email")
		return err
	}

	log.Info().Str("artist_id", payload.ArtistID).Msg("Submission email sent")
	return nil
}

func Register(mux *asynq.ServeMux, h *ArtistSubmittedHandler) {
	mux.Handle(TypeArtistSubmitted, h)
}
