package database

import (
	"strings"
	"time"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"

	"github.com/lib/pq"
)

// Row types are the storage schema. They never leave this package: every
// read goes through the to* converters below, which is where malformed
// values get normalised.

type UserRow struct {
	ID           uint    `gorm:"primaryKey"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	PasswordHash *string `gorm:"column:password_hash"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserRow) TableName() string { return "users" }

type ProfileRow struct {
	UserID  uint    `gorm:"primaryKey"`
	User    UserRow `gorm:"constraint:OnDelete:CASCADE"`
	IsAdmin bool    `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileRow) TableName() string { return "profiles" }

type LanguageRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex:idx_languages_name"`
	CreatedBy *uint  `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LanguageRow) TableName() string { return "languages" }

type ArtistRow struct {
	ID          string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"not null"`
	FirstName   string         `gorm:"not null;default:''"`
	LastName    string         `gorm:"not null;default:''"`
	Username    string         `gorm:"not null;uniqueIndex:idx_artists_username"`
	Email       string         `gorm:"not null"`
	Bio         string         `gorm:"type:varchar(250);not null;default:''"`
	VoiceGender *string        `gorm:"type:varchar(16)"`
	Languages   pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	AvatarURL   *string
	AvatarKey   *string
	Approved    bool  `gorm:"not null;default:false;index"`
	CreatedBy   *uint `gorm:"index"`

	// no OnDelete constraint: demos are removed explicitly before the artist
	Demos []DemoRow `gorm:"foreignKey:ArtistID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (ArtistRow) TableName() string { return "artists" }

type DemoRow struct {
	ID              string `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ArtistID        string `gorm:"type:uuid;not null;index"`
	Name            string `gorm:"not null"`
	URL             string `gorm:"not null"`
	StorageKey      string `gorm:"not null;default:''"`
	ContentType     string `gorm:"not null;default:''"`
	DurationSeconds int    `gorm:"not null;default:0"`
	IsMain          bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"index"`
}

func (DemoRow) TableName() string { return "demos" }

// ---------- row -> domain

// wellFormed rejects rows the rest of the app cannot render.
func (r ArtistRow) wellFormed() bool {
	return r.ID != "" && strings.TrimSpace(r.Username) != ""
}

func toArtist(r ArtistRow) artists.Artist {
	a := artists.Artist{
		ID:        r.ID,
		Name:      r.Name,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  strings.ToLower(strings.TrimSpace(r.Username)),
		Email:     r.Email,
		Bio:       r.Bio,
		Languages: normalizeLanguages(r.Languages),
		AvatarURL: nonEmpty(r.AvatarURL),
		Approved:  r.Approved,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if a.Name == "" {
		a.Name = artists.DisplayName("", r.FirstName, r.LastName)
	}
	if r.VoiceGender != nil {
		if g, ok := artists.ParseVoiceGender(*r.VoiceGender); ok {
			a.VoiceGender = g
		}
	}
	if r.AvatarKey != nil {
		a.AvatarKey = *r.AvatarKey
	}
	if len(r.Demos) > 0 {
		a.Demos = make([]demos.Demo, 0, len(r.Demos))
		for _, d := range r.Demos {
			a.Demos = append(a.Demos, toDemo(d))
		}
		demos.SortForDisplay(a.Demos)
	}
	return a
}

// normalizeLanguages always returns a non-nil slice without blanks or
// duplicates, keeping first-seen order.
func normalizeLanguages(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, l := range in {
		l = languages.NormalizeName(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func fromArtist(a artists.Artist) ArtistRow {
	row := ArtistRow{
		ID:        a.ID,
		Name:      a.Name,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Username:  artists.NormalizeUsername(a.Username),
		Email:     a.Email,
		Bio:       a.Bio,
		Languages: pq.StringArray(normalizeLanguages(a.Languages)),
		AvatarURL: nonEmpty(a.AvatarURL),
		Approved:  a.Approved,
		CreatedBy: a.CreatedBy,
	}
	if a.VoiceGender != "" {
		g := string(a.VoiceGender)
		row.VoiceGender = &g
	}
	if a.AvatarKey != "" {
		k := a.AvatarKey
		row.AvatarKey = &k
	}
	return row
}

func toDemo(r DemoRow) demos.Demo {
	return demos.Demo{
		ID:              r.ID,
		ArtistID:        r.ArtistID,
		Name:            r.Name,
		URL:             r.URL,
		StorageKey:      r.StorageKey,
		ContentType:     r.ContentType,
		DurationSeconds: r.DurationSeconds,
		IsMain:          r.IsMain,
		CreatedAt:       r.CreatedAt,
	}
}

func fromDemo(d demos.Demo) DemoRow {
	return DemoRow{
		ID:              d.ID,
		ArtistID:        d.ArtistID,
		Name:            d.Name,
		URL:             d.URL,
		StorageKey:      d.StorageKey,
		ContentType:     d.ContentType,
		DurationSeconds: d.DurationSeconds,
		IsMain:          d.IsMain,
	}
}

func toLanguage(r LanguageRow) languages.Language {
	return languages.Language{ID: r.ID, Name: r.Name, CreatedBy: r.CreatedBy, CreatedAt: r.CreatedAt}
}

func toUser(r UserRow) users.User {
	return users.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		AuthProvider: r.AuthProvider,
		GoogleSub:    r.GoogleSub,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
