// Package auth issues session tokens and turns them back into an
// access.Session for every request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vo-directory/internal/domain/users"
	"vo-directory/internal/infra/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 session tokens. Every token carries a
// random id so it can be revoked on sign-out.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(u users.User) (string, Claims, error) {
	now := t.now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (t *Tokens) Parse(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// Revocations remembers signed-out token ids until they would have expired
// anyway.
type Revocations struct {
	cache cache.Cache
	now   func() time.Time
}

func NewRevocations(c cache.Cache) *Revocations {
	return &Revocations{cache: c, now: time.Now}
}

func revocationKey(jti string) string { return "revoked:" + jti }

func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, revocationKey(jti), true, ttl)
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.cache.Exists(ctx, revocationKey(jti))
}
