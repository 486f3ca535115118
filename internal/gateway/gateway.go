// Package gateway declares the data access surface of the application.
// Everything that talks to the database, the object store or the
// notification queue does so through these interfaces.
package gateway

import (
	"context"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"
)

type Bucket string

const (
	BucketAvatars Bucket = "avatars"
	BucketDemos   Bucket = "demos"
)

type ArtistStore interface {
	ListApproved(ctx context.Context) ([]artists.Artist, error)
	ListAll(ctx context.Context) ([]artists.Artist, error)
	Get(ctx context.Context, id string) (artists.Artist, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (artists.Artist, error)
	Create(ctx context.Context, a *artists.Artist) error
	Update(ctx context.Context, a *artists.Artist) error
	// Delete removes the artist's demos first, then the artist.
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) error
}

type DemoStore interface {
	ListByArtist(ctx context.Context, artistID string) ([]demos.Demo, error)
	Get(ctx context.Context, id string) (demos.Demo, error)
	// Create applies demos.Plan atomically and sets IsMain on d.
	Create(ctx context.Context, d *demos.Demo) error
	// Delete returns the removed demo and promotes a new main when needed.
	Delete(ctx context.Context, id string) (demos.Demo, error)
	SetMain(ctx context.Context, id string) error
}

type LanguageStore interface {
	List(ctx context.Context) ([]languages.Language, error)
	Create(ctx context.Context, l *languages.Language) error
	Rename(ctx context.Context, id uint, name string) (languages.Language, error)
	Delete(ctx context.Context, id uint) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID uint) (users.Profile, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id uint) (users.User, error)
	FindByEmail(ctx context.Context, email string) (users.User, error)
	FindByGoogleSub(ctx context.Context, sub string) (users.User, error)
	// Create stores the user together with a profile.
	Create(ctx context.Context, u *users.User, isAdmin bool) error
	LinkGoogle(ctx context.Context, id uint, sub string) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	SetAdmin(ctx context.Context, id uint, isAdmin bool) error
}

type FileStorage interface {
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, bucket Bucket, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket Bucket, key string) error
}

type Notifier interface {
	NotifyArtistSubmitted(ctx context.Context, artistName, artistID string) error
}
