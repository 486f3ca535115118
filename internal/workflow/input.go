package workflow

import (
	"errors"
	"fmt"
	"strings"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/infra/media"
	"vo-directory/pkg/sanitize"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Upload is a file received from a form.
type Upload struct {
	FileName string
	Data     []byte
}

type DemoUpload struct {
	// Name is optional; the tag title or file name is used otherwise.
	Name string
	File Upload
}

// ArtistInput is the artist form. Text fields are sanitised before they are
// validated.
type ArtistInput struct {
	Name        string   `json:"name"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	VoiceGender string   `json:"voice_gender"`
	Bio         string   `json:"bio"`
	Languages   []string `json:"languages"`

	Avatar *Upload      `json:"-"`
	Demos  []DemoUpload `json:"-"`
}

func (in *ArtistInput) clean() {
	in.Name = sanitize.Text(in.Name)
	in.FirstName = sanitize.Text(in.FirstName)
	in.LastName = sanitize.Text(in.LastName)
	in.Email = strings.ToLower(sanitize.Text(in.Email))
	in.Username = artists.NormalizeUsername(sanitize.Text(in.Username))
	in.VoiceGender = strings.ToLower(sanitize.Text(in.VoiceGender))
	in.Bio = sanitize.Text(in.Bio)

	langs := make([]string, 0, len(in.Languages))
	for _, l := range in.Languages {
		if l = languages.NormalizeName(sanitize.Text(l)); l != "" {
			langs = append(langs, l)
		}
	}
	in.Languages = langs
}

func genderValues() []interface{} {
	out := make([]interface{}, 0, len(artists.VoiceGenders))
	for _, g := range artists.VoiceGenders {
		out = append(out, string(g))
	}
	return out
}

func (in *ArtistInput) rules() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.FirstName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Username, validation.Required, validation.RuneLength(2, 64)),
		validation.Field(&in.VoiceGender, validation.Required, validation.In(genderValues()...)),
		validation.Field(&in.Bio, validation.Required, validation.RuneLength(1, artists.MaxBioLength)),
		validation.Field(&in.Languages, validation.Required),
		validation.Field(&in.Name, validation.RuneLength(0, 200)),
	)
}

// preparedDemo is a demo upload that passed probing.
type preparedDemo struct {
	name  string
	file  Upload
	audio media.Audio
}

type prepared struct {
	input      ArtistInput
	avatarType string
	demos      []preparedDemo
}

// validate cleans the input and checks fields, languages against the
// registry, the avatar type and every demo file. Nothing is uploaded before
// all of it passed.
func validate(in ArtistInput, registry []languages.Language, existingDemos int) (prepared, error) {
	in.clean()
	p := prepared{input: in}
	fields := map[string]string{}
	required := false

	if err := in.rules(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return p, err
		}
		for field, ferr := range verrs {
			var ve validation.Error
			if errors.As(ferr, &ve) && ve.Code() == validation.ErrRequired.Code() {
				required = true
			}
			fields[field] = ferr.Error()
		}
	}

	for i, l := range in.Languages {
		canonical, ok := languages.Canonical(registry, l)
		if !ok {
			fields["languages"] = fmt.Sprintf("unknown language %q", l)
			continue
		}
		p.input.Languages[i] = canonical
	}
	p.input.Languages = dedupe(p.input.Languages)

	if in.Avatar != nil {
		ct, _, err := media.CheckImage(in.Avatar.Data)
		if err != nil {
			fields["avatar"] = "must be an image"
		}
		p.avatarType = ct
	}

	if existingDemos+len(in.Demos) > demos.MaxPerArtist {
		fields["demos"] = fmt.Sprintf("at most %d demos per artist", demos.MaxPerArtist)
	}
	for i, d := range in.Demos {
		probed, err := media.ProbeAudio(d.File.Data)
		if err != nil {
			fields[fmt.Sprintf("demos.%d", i)] = "must be an audio file"
			continue
		}
		p.demos = append(p.demos, preparedDemo{
			name:  media.DemoName(sanitize.Text(d.Name), probed, d.File.FileName),
			file:  d.File,
			audio: probed,
		})
	}

	if len(fields) == 0 {
		return p, nil
	}
	msg := "invalid submission"
	if required {
		msg = MsgRequiredFields
	}
	return p, &ValidationError{Message: msg, Fields: fields}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
