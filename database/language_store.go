package database

import (
	"context"
	"errors"

	"vo-directory/internal/domain/languages"
	"vo-directory/internal/gateway"

	"gorm.io/gorm"
)

type LanguageStore struct {
	db *gorm.DB
}

var _ gateway.LanguageStore = (*LanguageStore)(nil)

func NewLanguageStore(db *gorm.DB) *LanguageStore {
	return &LanguageStore{db: db}
}

func (s *LanguageStore) List(ctx context.Context) ([]languages.Language, error) {
	var rows []LanguageRow
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]languages.Language, 0, len(rows))
	for _, r := range rows {
		out = append(out, toLanguage(r))
	}
	return out, nil
}

func (s *LanguageStore) Create(ctx context.Context, l *languages.Language) error {
	row := LanguageRow{Name: l.Name, CreatedBy: l.CreatedBy}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateLanguageErr(err)
	}
	*l = toLanguage(row)
	return nil
}

// Rename only touches the lookup row. Artists keep whatever name they were
// tagged with.
func (s *LanguageStore) Rename(ctx context.Context, id uint, name string) (languages.Language, error) {
	res := s.db.WithContext(ctx).
		Model(&LanguageRow{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return languages.Language{}, translateLanguageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return languages.Language{}, languages.ErrNotFound
	}

	var row LanguageRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return languages.Language{}, err
	}
	return toLanguage(row), nil
}

func (s *LanguageStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&LanguageRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return languages.ErrNotFound
	}
	return nil
}

func translateLanguageErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return languages.ErrDuplicate
	}
	return err
}
