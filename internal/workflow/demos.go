package workflow

import (
	"context"

	"vo-directory/internal/domain/demos"
	"vo-directory/internal/gateway"
	"vo-directory/internal/infra/media"
	"vo-directory/pkg/sanitize"

	"github.com/rs/zerolog/log"
)

// AddDemo uploads and inserts a single demo. The first demo of an artist
// becomes its main demo; once the artist holds demos.MaxPerArtist the call
// fails with ErrDemoLimit before anything is uploaded.
func (w *Workflow) AddDemo(ctx context.Context, artistID string, d DemoUpload) (demos.Demo, error) {
	if _, err := w.artists.Get(ctx, artistID); err != nil {
		return demos.Demo{}, err
	}
	existing, err := w.demos.ListByArtist(ctx, artistID)
	if err != nil {
		return demos.Demo{}, stepErr(StepValidate, err)
	}
	if _, err := demos.Plan(len(existing)); err != nil {
		return demos.Demo{}, stepErr(StepValidate, err)
	}

	probed, err := media.ProbeAudio(d.File.Data)
	if err != nil {
		return demos.Demo{}, stepErr(StepValidate, &ValidationError{
			Message: "invalid demo",
			Fields:  map[string]string{"file": "must be an audio file"},
		})
	}

	var s saga
	created, err := w.storeDemo(ctx, &s, artistID, preparedDemo{
		name:  media.DemoName(sanitize.Text(d.Name), probed, d.File.FileName),
		file:  d.File,
		audio: probed,
	})
	if err != nil {
		s.rollback(ctx)
		return demos.Demo{}, err
	}
	w.cache.InvalidateArtists(ctx)
	return created, nil
}

// DeleteDemo removes the row first, then the stored object. A failed object
// delete is only logged.
func (w *Workflow) DeleteDemo(ctx context.Context, demoID string) error {
	removed, err := w.demos.Delete(ctx, demoID)
	if err != nil {
		return err
	}
	w.cache.InvalidateArtists(ctx)
	w.removeObject(ctx, gateway.BucketDemos, removed.StorageKey)
	return nil
}

func (w *Workflow) SetMainDemo(ctx context.Context, demoID string) error {
	if err := w.demos.SetMain(ctx, demoID); err != nil {
		return err
	}
	w.cache.InvalidateArtists(ctx)
	return nil
}

func (w *Workflow) removeObject(ctx context.Context, bucket gateway.Bucket, key string) {
	if key == "" {
		return
	}
	if err := w.files.Delete(ctx, bucket, key); err != nil {
		log.Warn().Err(err).Str("bucket", string(bucket)).Str("key", key).Msg("stored object not removed")
	}
}
