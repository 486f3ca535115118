package artists

import (
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
)

type DemoDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	IsMain          bool   `json:"is_main"`
}

// PublicArtistDTO is what anonymous visitors see. Email and approval state
// stay internal.
type PublicArtistDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	ProfileURL  string    `json:"profile_url"`
	Bio         string    `json:"bio"`
	VoiceGender string    `json:"voice_gender,omitempty"`
	Languages   []string  `json:"languages"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Demos       []DemoDTO `json:"demos"`
}

func toDemoDTO(d demos.Demo) DemoDTO {
	return DemoDTO{ID: d.ID, Name: d.Name, URL: d.URL, DurationSeconds: d.DurationSeconds, IsMain: d.IsMain}
}

func ToPublicDTO(a artists.Artist) PublicArtistDTO {
	dto := PublicArtistDTO{
		ID:          a.ID,
		Name:        a.Name,
		Username:    a.Username,
		ProfileURL:  artists.ProfilePath(a.Username),
		Bio:         a.Bio,
		VoiceGender: string(a.VoiceGender),
		Languages:   a.Languages,
		AvatarURL:   a.AvatarURL,
		Demos:       make([]DemoDTO, 0, len(a.Demos)),
	}
	if dto.Languages == nil {
		dto.Languages = []string{}
	}
	for _, d := range a.Demos {
		dto.Demos = append(dto.Demos, toDemoDTO(d))
	}
	return dto
}

func ToPublicDTOs(list []artists.Artist) []PublicArtistDTO {
	out := make([]PublicArtistDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToPublicDTO(a))
	}
	return out
}
