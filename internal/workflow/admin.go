package workflow

import (
	"context"

	"vo-directory/internal/gateway"
)

// DeleteArtist removes the demos and the artist in one store call, then the
// stored objects. Objects that cannot be removed are logged and left.
func (w *Workflow) DeleteArtist(ctx context.Context, id string) error {
	a, err := w.artists.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := w.artists.Delete(ctx, id); err != nil {
		return err
	}
	w.cache.InvalidateArtists(ctx)

	for _, d := range a.Demos {
		w.removeObject(ctx, gateway.BucketDemos, d.StorageKey)
	}
	w.removeObject(ctx, gateway.BucketAvatars, a.AvatarKey)
	return nil
}

func (w *Workflow) SetApproved(ctx context.Context, id string, approved bool) error {
	if err := w.artists.SetApproved(ctx, id, approved); err != nil {
		return err
	}
	w.cache.InvalidateArtists(ctx)
	return nil
}
