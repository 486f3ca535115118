package middleware

import (
	"context"
	"strings"

	"vo-directory/internal/domain/access"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionResolver is satisfied by *auth.Resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, raw string) access.Session
}

// BearerOrCookie returns the bearer token when present, the session cookie
// otherwise.
func BearerOrCookie(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if v, err := c.Cookie(cookieName); err == nil {
		return v
	}
	return ""
}

// Session resolves the request's session once and stores the snapshot in
// the gin context. It never aborts.
func Session(r SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := r.Resolve(c.Request.Context(), BearerOrCookie(c, cookieName))
		c.Set(sessionKey, s)
		if s.IsAuthenticated {
			c.Set("user_id", s.UserID)
		}
		c.Next()
	}
}

// SessionFrom reads the snapshot. Handlers mounted without the Session
// middleware see an anonymous session.
func SessionFrom(c *gin.Context) access.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(access.Session); ok {
			return s
		}
	}
	return access.Anonymous()
}
