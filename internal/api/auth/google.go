package auth

import (
	"net/http"

	"vo-directory/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const stateCookie = "oauth_state"

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := auth.RandomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.cookies.Secure, true)

	identity, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("google exchange")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "google sign-in failed"})
		return
	}

	token, claims, err := h.accounts.SignInGoogle(c.Request.Context(), identity)
	if err != nil {
		log.Error().Err(err).Msg("google sign-in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}
	h.cookies.Set(c, token, claims.ExpiresAt.Time)

	if h.frontendRedirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": token})
		return
	}
	c.Redirect(http.StatusFound, h.frontendRedirect)
}
