package artists

import (
	"errors"
	"strings"
	"time"

	"vo-directory/internal/domain/demos"
)

const (
	// AllLanguages is the language selector value that disables the language filter.
	AllLanguages = "all"

	MaxBioLength = 250
)

var (
	ErrNotFound      = errors.New("artist not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type VoiceGender string

const (
	GenderMale    VoiceGender = "male"
	GenderFemale  VoiceGender = "female"
	GenderNeutral VoiceGender = "neutral"
)

var VoiceGenders = []VoiceGender{GenderMale, GenderFemale, GenderNeutral}

// ParseVoiceGender accepts any casing and surrounding whitespace.
func ParseVoiceGender(s string) (VoiceGender, bool) {
	g := VoiceGender(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range VoiceGenders {
		if g == known {
			return g, true
		}
	}
	return "", false
}

type Artist struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Bio         string      `json:"bio"`
	VoiceGender VoiceGender `json:"voice_gender,omitempty"`
	Languages   []string    `json:"languages"`
	AvatarURL   *string     `json:"avatar_url,omitempty"`
	AvatarKey   string      `json:"-"`
	Approved    bool        `json:"approved"`
	CreatedBy   *uint       `json:"-"`

	Demos []demos.Demo `json:"demos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName falls back to "First Last" when no explicit name was given.
func DisplayName(name, first, last string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// MainDemo returns the demo flagged as main, if any.
func (a Artist) MainDemo() *demos.Demo {
	for i := range a.Demos {
		if a.Demos[i].IsMain {
			return &a.Demos[i]
		}
	}
	return nil
}

func (a Artist) SpeaksLanguage(lang string) bool {
	for _, l := range a.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
