package database

import (
	"context"
	"errors"

	"vo-directory/internal/domain/users"
	"vo-directory/internal/gateway"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore covers both the identities and their profiles.
type UserStore struct {
	db *gorm.DB
}

var (
	_ gateway.UserStore    = (*UserStore)(nil)
	_ gateway.ProfileStore = (*UserStore)(nil)
)

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetProfile(ctx context.Context, userID uint) (users.Profile, error) {
	var row ProfileRow
	if err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return users.Profile{}, users.ErrNotFound
		}
		return users.Profile{}, err
	}
	return users.Profile{UserID: row.UserID, IsAdmin: row.IsAdmin}, nil
}

func (s *UserStore) findOne(ctx context.Context, query string, args ...interface{}) (users.User, error) {
	var row UserRow
	if err := s.db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return toUser(row), nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (users.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (users.User, error) {
	return s.findOne(ctx, "email = ?", users.NormalizeEmail(email))
}

func (s *UserStore) FindByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	return s.findOne(ctx, "google_sub = ?", sub)
}

func (s *UserStore) Create(ctx context.Context, u *users.User, isAdmin bool) error {
	row := UserRow{
		Email:        users.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		AuthProvider: u.AuthProvider,
		GoogleSub:    u.GoogleSub,
	}
	if row.AuthProvider == "" {
		row.AuthProvider = users.ProviderLocal
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&ProfileRow{UserID: row.ID, IsAdmin: isAdmin}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return users.ErrEmailTaken
		}
		return err
	}
	*u = toUser(row)
	return nil
}

func (s *UserStore) LinkGoogle(ctx context.Context, id uint, sub string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"google_sub": sub})
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (s *UserStore) updateUser(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&UserRow{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (s *UserStore) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_admin", "updated_at"}),
	}).Create(&ProfileRow{UserID: id, IsAdmin: isAdmin}).Error
}
