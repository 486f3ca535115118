package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookies describes the session cookie used by the HTML pages.
type Cookies struct {
	Name   string
	Secure bool
}

func (k Cookies) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(k.Name, token, maxAge, "/", "", k.Secure, true)
}

func (k Cookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(k.Name, "", -1, "/", "", k.Secure, true)
}
