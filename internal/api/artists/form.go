package artists

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
)

const (
	MaxAvatarBytes = 5 << 20
	MaxDemoBytes   = 20 << 20
	maxFormMemory  = 32 << 20
)

var ErrFileTooLarge = errors.New("file too large")

// ParseArtistForm reads the multipart artist form shared by the public
// submission and the admin console. Languages may be sent as repeated
// "languages" fields or as one comma separated value. Demo files come as
// repeated "demos" parts with optional "demo_names" in the same order.
func ParseArtistForm(c *gin.Context) (workflow.ArtistInput, error) {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return workflow.ArtistInput{}, fmt.Errorf("invalid form: %w", err)
	}

	in := workflow.ArtistInput{
		Name:        c.PostForm("name"),
		FirstName:   c.PostForm("first_name"),
		LastName:    c.PostForm("last_name"),
		Email:       c.PostForm("email"),
		Username:    c.PostForm("username"),
		VoiceGender: c.PostForm("voice_gender"),
		Bio:         c.PostForm("bio"),
		Languages:   splitLanguages(c.PostFormArray("languages")),
	}

	form := c.Request.MultipartForm
	if form == nil {
		return in, nil
	}

	if files := form.File["avatar"]; len(files) > 0 && files[0].Size > 0 {
		avatar, err := ReadUpload(files[0], MaxAvatarBytes)
		if err != nil {
			return in, err
		}
		in.Avatar = &avatar
	}

	names := form.Value["demo_names"]
	for i, fh := range form.File["demos"] {
		if fh.Size == 0 {
			continue
		}
		up, err := ReadUpload(fh, MaxDemoBytes)
		if err != nil {
			return in, err
		}
		d := workflow.DemoUpload{File: up}
		if i < len(names) {
			d.Name = names[i]
		}
		in.Demos = append(in.Demos, d)
	}
	return in, nil
}

func splitLanguages(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func ReadUpload(fh *multipart.FileHeader, limit int64) (workflow.Upload, error) {
	if fh.Size > limit {
		return workflow.Upload{}, fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return workflow.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return workflow.Upload{}, err
	}
	if int64(len(data)) > limit {
		return workflow.Upload{}, fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
	}
	return workflow.Upload{FileName: fh.Filename, Data: data}, nil
}
