package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStripsHeaderInjection(t *testing.T) {
	raw := string(Format("noreply@vo.test", Message{
		To:      "admin@vo.test",
		Subject: "hello\r\nBcc: evil@x.test",
		Body:    "body",
	}))

	assert.Contains(t, raw, "Subject: hello Bcc: evil@x.test\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.Contains(t, raw, "\r\n\r\nbody\r\n")
}

func TestArtistSubmitted(t *testing.T) {
	m := ArtistSubmitted("admin@vo.test", "Jane Doe", "artist-1", "http://localhost:8080/admin/edit/artist-1")
	assert.Equal(t, "admin@vo.test", m.To)
	assert.Equal(t, "New voice submission: Jane Doe", m.Subject)
	assert.Contains(t, m.Body, "artist-1")
	assert.Contains(t, m.Body, "/admin/edit/artist-1")
}
