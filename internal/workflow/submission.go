package workflow

import (
	"context"
	"errors"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/gateway"
	"vo-directory/internal/infra/storage"

	"github.com/rs/zerolog/log"
)

// CreateOptions describe who is creating the artist.
type CreateOptions struct {
	CreatedBy *uint
	// Approved is honoured for admin creations only; public submissions
	// always start unapproved.
	Approved bool
	// Public marks a submission from the public form. Admins are notified.
	Public bool
}

// CreateArtist runs the creation path: avatar upload, artist insert, then
// one upload and insert per demo. Any failure rolls back everything done
// so far.
func (w *Workflow) CreateArtist(ctx context.Context, in ArtistInput, opts CreateOptions) (artists.Artist, error) {
	registry, err := w.languages.List(ctx)
	if err != nil {
		return artists.Artist{}, stepErr(StepValidate, err)
	}
	p, err := validate(in, registry, 0)
	if err != nil {
		return artists.Artist{}, stepErr(StepValidate, err)
	}

	var s saga

	avatarURL, avatarKey, err := w.uploadAvatar(ctx, &s, p)
	if err != nil {
		return artists.Artist{}, err
	}

	a := p.toArtist()
	a.AvatarURL = avatarURL
	a.AvatarKey = avatarKey
	a.CreatedBy = opts.CreatedBy
	a.Approved = opts.Approved && !opts.Public

	if err := w.artists.Create(ctx, &a); err != nil {
		log.Error().Err(err).Str("step", StepWriteArtist).Str("username", a.Username).Msg("artist insert failed")
		s.rollback(ctx)
		return artists.Artist{}, stepErr(StepWriteArtist, err)
	}
	artistID := a.ID
	s.committed(StepWriteArtist, func(ctx context.Context) error {
		return w.artists.Delete(ctx, artistID)
	})

	for _, d := range p.demos {
		created, err := w.storeDemo(ctx, &s, a.ID, d)
		if err != nil {
			s.rollback(ctx)
			return artists.Artist{}, err
		}
		a.Demos = append(a.Demos, created)
	}
	demos.SortForDisplay(a.Demos)

	w.cache.InvalidateArtists(ctx)

	if opts.Public {
		if err := w.notifier.NotifyArtistSubmitted(ctx, a.Name, a.ID); err != nil {
			log.Error().Err(err).Str("artist_id", a.ID).Msg("admin notification failed")
		}
	}
	return a, nil
}

// UpdateArtist runs the edit path. The previous avatar is kept unless a new
// file is given, in which case the old object is removed after the update.
// A failing demo only compensates its own upload: the artist update and
// earlier demos stay.
func (w *Workflow) UpdateArtist(ctx context.Context, id string, in ArtistInput) (artists.Artist, error) {
	existing, err := w.artists.Get(ctx, id)
	if err != nil {
		return artists.Artist{}, err
	}
	registry, err := w.languages.List(ctx)
	if err != nil {
		return artists.Artist{}, stepErr(StepValidate, err)
	}
	p, err := validate(in, registry, len(existing.Demos))
	if err != nil {
		return artists.Artist{}, stepErr(StepValidate, err)
	}

	var s saga

	avatarURL, avatarKey, err := w.uploadAvatar(ctx, &s, p)
	if err != nil {
		return artists.Artist{}, err
	}
	replaced := avatarURL != nil
	if !replaced {
		avatarURL, avatarKey = existing.AvatarURL, existing.AvatarKey
	}

	a := p.toArtist()
	a.ID = existing.ID
	a.AvatarURL = avatarURL
	a.AvatarKey = avatarKey
	a.Approved = existing.Approved
	a.CreatedBy = existing.CreatedBy

	if err := w.artists.Update(ctx, &a); err != nil {
		log.Error().Err(err).Str("step", StepWriteArtist).Str("artist_id", id).Msg("artist update failed")
		s.rollback(ctx)
		return artists.Artist{}, stepErr(StepWriteArtist, err)
	}
	w.cache.InvalidateArtists(ctx)

	if replaced && existing.AvatarKey != "" {
		if err := w.files.Delete(ctx, gateway.BucketAvatars, existing.AvatarKey); err != nil {
			log.Warn().Err(err).Str("key", existing.AvatarKey).Msg("old avatar not removed")
		}
	}

	a.Demos = existing.Demos
	for _, d := range p.demos {
		var own saga
		created, err := w.storeDemo(ctx, &own, a.ID, d)
		if err != nil {
			own.rollback(ctx)
			return artists.Artist{}, err
		}
		a.Demos = append(a.Demos, created)
	}
	demos.SortForDisplay(a.Demos)
	return a, nil
}

func (p prepared) toArtist() artists.Artist {
	in := p.input
	g, _ := artists.ParseVoiceGender(in.VoiceGender)
	return artists.Artist{
		Name:        artists.DisplayName(in.Name, in.FirstName, in.LastName),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Username:    in.Username,
		Email:       in.Email,
		Bio:         in.Bio,
		VoiceGender: g,
		Languages:   in.Languages,
	}
}

// uploadAvatar returns nil values when the input carries no avatar.
func (w *Workflow) uploadAvatar(ctx context.Context, s *saga, p prepared) (*string, string, error) {
	if p.input.Avatar == nil {
		return nil, "", nil
	}
	key := storage.ObjectKey("", p.input.Avatar.FileName, w.now())
	url, err := w.files.Upload(ctx, gateway.BucketAvatars, key, p.input.Avatar.Data, p.avatarType)
	if err != nil {
		log.Error().Err(err).Str("step", StepUploadAvatar).Str("key", key).Msg("avatar upload failed")
		s.rollback(ctx)
		return nil, "", stepErr(StepUploadAvatar, err)
	}
	s.committed(StepUploadAvatar, func(ctx context.Context) error {
		return w.files.Delete(ctx, gateway.BucketAvatars, key)
	})
	return &url, key, nil
}

// storeDemo uploads one demo and inserts its row. The store decides whether
// it becomes the main demo.
func (w *Workflow) storeDemo(ctx context.Context, s *saga, artistID string, d preparedDemo) (demos.Demo, error) {
	key := storage.ObjectKey(artistID, d.file.FileName, w.now())
	url, err := w.files.Upload(ctx, gateway.BucketDemos, key, d.file.Data, d.audio.ContentType)
	if err != nil {
		log.Error().Err(err).Str("step", StepUploadDemo).Str("artist_id", artistID).Msg("demo upload failed")
		return demos.Demo{}, stepErr(StepUploadDemo, err)
	}
	s.committed(StepUploadDemo, func(ctx context.Context) error {
		return w.files.Delete(ctx, gateway.BucketDemos, key)
	})

	demo := demos.Demo{
		ArtistID:        artistID,
		Name:            d.name,
		URL:             url,
		StorageKey:      key,
		ContentType:     d.audio.ContentType,
		DurationSeconds: d.audio.DurationSeconds,
	}
	if err := w.demos.Create(ctx, &demo); err != nil {
		if !errors.Is(err, demos.ErrLimit) {
			log.Error().Err(err).Str("step", StepInsertDemo).Str("artist_id", artistID).Msg("demo insert failed")
		}
		return demos.Demo{}, stepErr(StepInsertDemo, err)
	}
	demoID := demo.ID
	s.committed(StepInsertDemo, func(ctx context.Context) error {
		_, err := w.demos.Delete(ctx, demoID)
		return err
	})
	return demo, nil
}
