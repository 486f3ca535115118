package auth

import (
	"context"
	"errors"
	"net/http"

	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/auth"
	"vo-directory/internal/domain/access"
	"vo-directory/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Accounts is the part of *auth.Service the handlers use.
type Accounts interface {
	Login(ctx context.Context, email, password string) (string, auth.Claims, error)
	Logout(ctx context.Context, session access.Session) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	SignInGoogle(ctx context.Context, id auth.GoogleIdentity) (string, auth.Claims, error)
}

// GoogleFlow is satisfied by *auth.Google.
type GoogleFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.GoogleIdentity, error)
}

type Handler struct {
	accounts Accounts
	cookies  Cookies

	google           GoogleFlow
	frontendRedirect string
}

func NewHandler(a Accounts, cookies Cookies) *Handler {
	return &Handler{accounts: a, cookies: cookies}
}

// WithGoogle enables the OAuth routes. An empty redirect answers the
// callback with JSON instead of redirecting.
func (h *Handler) WithGoogle(g GoogleFlow, frontendRedirect string) *Handler {
	h.google = g
	h.frontendRedirect = frontendRedirect
	return h
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, claims, err := h.accounts.Login(c.Request.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, users.ErrNoPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case err != nil:
		log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	h.cookies.Set(c, token, claims.ExpiresAt.Time)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		log.Error().Err(err).Msg("revoke token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign out"})
		return
	}
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GET /api/auth/session
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.SessionFrom(c))
}

// POST /api/auth/password
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), middleware.SessionFrom(c).UserID, body.OldPassword, body.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrNoPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This account does not have a password. Sign in with Google."})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
	default:
		log.Error().Err(err).Msg("change password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not change password"})
	}
}
