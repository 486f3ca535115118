package database

import (
	"context"
	"errors"
	"strings"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/gateway"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ArtistStore struct {
	db *gorm.DB
}

var _ gateway.ArtistStore = (*ArtistStore)(nil)

func NewArtistStore(db *gorm.DB) *ArtistStore {
	return &ArtistStore{db: db}
}

func (s *ArtistStore) list(ctx context.Context, onlyApproved bool) ([]artists.Artist, error) {
	q := s.db.WithContext(ctx).Model(&ArtistRow{})
	if onlyApproved {
		q = q.Where("approved = ?", true)
	}

	var rows []ArtistRow
	if err := q.
		Preload("Demos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]artists.Artist, 0, len(rows))
	for _, r := range rows {
		if !r.wellFormed() {
			log.Warn().Str("artist_id", r.ID).Msg("skipping malformed artist row")
			continue
		}
		out = append(out, toArtist(r))
	}
	return out, nil
}

func (s *ArtistStore) ListApproved(ctx context.Context) ([]artists.Artist, error) {
	return s.list(ctx, true)
}

func (s *ArtistStore) ListAll(ctx context.Context) ([]artists.Artist, error) {
	return s.list(ctx, false)
}

func (s *ArtistStore) first(ctx context.Context, query string, args ...interface{}) (artists.Artist, error) {
	var row ArtistRow
	err := s.db.WithContext(ctx).
		Preload("Demos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where(query, args...).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return artists.Artist{}, artists.ErrNotFound
		}
		return artists.Artist{}, err
	}
	if !row.wellFormed() {
		return artists.Artist{}, artists.ErrNotFound
	}
	return toArtist(row), nil
}

func (s *ArtistStore) Get(ctx context.Context, id string) (artists.Artist, error) {
	if !isUUID(id) {
		return artists.Artist{}, artists.ErrNotFound
	}
	return s.first(ctx, "id = ?", id)
}

func (s *ArtistStore) GetByUsername(ctx context.Context, username string) (artists.Artist, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return artists.Artist{}, artists.ErrNotFound
	}
	return s.first(ctx, "lower(username) = ?", username)
}

func (s *ArtistStore) Create(ctx context.Context, a *artists.Artist) error {
	row := fromArtist(*a)
	row.ID = ""
	if err := s.db.WithContext(ctx).Omit("Demos").Create(&row).Error; err != nil {
		return translateArtistErr(err)
	}
	*a = toArtist(row)
	return nil
}

func (s *ArtistStore) Update(ctx context.Context, a *artists.Artist) error {
	if !isUUID(a.ID) {
		return artists.ErrNotFound
	}
	row := fromArtist(*a)

	// map updates so cleared values (nil avatar, no gender) are written too
	res := s.db.WithContext(ctx).
		Model(&ArtistRow{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"name":         row.Name,
			"first_name":   row.FirstName,
			"last_name":    row.LastName,
			"username":     row.Username,
			"email":        row.Email,
			"bio":          row.Bio,
			"voice_gender": row.VoiceGender,
			"languages":    row.Languages,
			"avatar_url":   row.AvatarURL,
			"avatar_key":   row.AvatarKey,
		})
	if res.Error != nil {
		return translateArtistErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return artists.ErrNotFound
	}

	updated, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	updated.Demos = nil
	*a = updated
	return nil
}

func (s *ArtistStore) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return artists.ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", id).Delete(&DemoRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&ArtistRow{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return artists.ErrNotFound
		}
		return nil
	})
}

func (s *ArtistStore) SetApproved(ctx context.Context, id string, approved bool) error {
	if !isUUID(id) {
		return artists.ErrNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&ArtistRow{}).
		Where("id = ?", id).
		Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return artists.ErrNotFound
	}
	return nil
}

func translateArtistErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return artists.ErrUsernameTaken
	}
	return err
}
