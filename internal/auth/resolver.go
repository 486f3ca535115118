package auth

import (
	"context"
	"strings"

	"vo-directory/internal/domain/access"
	"vo-directory/internal/gateway"

	"github.com/rs/zerolog/log"
)

// Resolver derives the session of a request from its raw token.
type Resolver struct {
	tokens   *Tokens
	revoked  *Revocations
	profiles gateway.ProfileStore
}

func NewResolver(tokens *Tokens, revoked *Revocations, profiles gateway.ProfileStore) *Resolver {
	return &Resolver{tokens: tokens, revoked: revoked, profiles: profiles}
}

// Resolve never fails: anything that goes wrong degrades the session. A bad
// or revoked token is anonymous, a failed profile lookup is a signed-in
// non-admin.
func (r *Resolver) Resolve(ctx context.Context, raw string) access.Session {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return access.Anonymous()
	}

	claims, err := r.tokens.Parse(raw)
	if err != nil {
		return access.Anonymous()
	}

	revoked, err := r.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Warn().Err(err).Msg("token revocation check failed")
		return access.Anonymous()
	}
	if revoked {
		return access.Anonymous()
	}

	s := access.Session{
		IsAuthenticated: true,
		UserID:          claims.UserID,
		Email:           claims.Email,
		TokenID:         claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}

	profile, err := r.profiles.GetProfile(ctx, claims.UserID)
	if err != nil {
		log.Debug().Err(err).Uint("user_id", claims.UserID).Msg("profile lookup failed, treating as non-admin")
		return s
	}
	s.IsAdmin = profile.IsAdmin
	return s
}
