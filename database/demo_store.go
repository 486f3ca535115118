package database

import (
	"context"
	"errors"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/gateway"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DemoStore struct {
	db *gorm.DB
}

var _ gateway.DemoStore = (*DemoStore)(nil)

func NewDemoStore(db *gorm.DB) *DemoStore {
	return &DemoStore{db: db}
}

func artistDemosQuery(db *gorm.DB, artistID string) *gorm.DB {
	return db.Model(&DemoRow{}).Where("artist_id = ?", artistID)
}

func (s *DemoStore) ListByArtist(ctx context.Context, artistID string) ([]demos.Demo, error) {
	if !isUUID(artistID) {
		return []demos.Demo{}, nil
	}
	var rows []DemoRow
	if err := artistDemosQuery(s.db.WithContext(ctx), artistID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]demos.Demo, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDemo(r))
	}
	return out, nil
}

func (s *DemoStore) Get(ctx context.Context, id string) (demos.Demo, error) {
	if !isUUID(id) {
		return demos.Demo{}, demos.ErrNotFound
	}
	var row DemoRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return demos.Demo{}, demos.ErrNotFound
		}
		return demos.Demo{}, err
	}
	return toDemo(row), nil
}

// lockArtist serialises demo writes of one artist so the count read by
// demos.Plan cannot go stale before the insert.
func lockArtist(tx *gorm.DB, artistID string) error {
	var a ArtistRow
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&a, "id = ?", artistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return artists.ErrNotFound
	}
	return err
}

func (s *DemoStore) Create(ctx context.Context, d *demos.Demo) error {
	if !isUUID(d.ArtistID) {
		return artists.ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArtist(tx, d.ArtistID); err != nil {
			return err
		}

		var count int64
		if err := artistDemosQuery(tx, d.ArtistID).Count(&count).Error; err != nil {
			return err
		}
		isMain, err := demos.Plan(int(count))
		if err != nil {
			return err
		}

		row := fromDemo(*d)
		row.ID = ""
		row.IsMain = isMain
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		*d = toDemo(row)
		return nil
	})
}

func (s *DemoStore) Delete(ctx context.Context, id string) (demos.Demo, error) {
	if !isUUID(id) {
		return demos.Demo{}, demos.ErrNotFound
	}
	var removed DemoRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&removed, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return demos.ErrNotFound
			}
			return err
		}
		if err := lockArtist(tx, removed.ArtistID); err != nil {
			return err
		}
		if err := tx.Delete(&DemoRow{}, "id = ?", id).Error; err != nil {
			return err
		}
		if !removed.IsMain {
			return nil
		}

		var rest []DemoRow
		if err := artistDemosQuery(tx, removed.ArtistID).Find(&rest).Error; err != nil {
			return err
		}
		remaining := make([]demos.Demo, 0, len(rest))
		for _, r := range rest {
			remaining = append(remaining, toDemo(r))
		}
		next := demos.NextMain(remaining)
		if next == nil {
			return nil
		}
		return tx.Model(&DemoRow{}).Where("id = ?", next.ID).Update("is_main", true).Error
	})
	if err != nil {
		return demos.Demo{}, err
	}
	return toDemo(removed), nil
}

func (s *DemoStore) SetMain(ctx context.Context, id string) error {
	if !isUUID(id) {
		return demos.ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target DemoRow
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return demos.ErrNotFound
			}
			return err
		}
		if err := lockArtist(tx, target.ArtistID); err != nil {
			return err
		}
		if err := artistDemosQuery(tx, target.ArtistID).
			Where("id <> ?", id).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&DemoRow{}).Where("id = ?", id).Update("is_main", true).Error
	})
}
