package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"vo-directory/internal/domain/access"
	"vo-directory/internal/domain/users"
	"vo-directory/internal/gateway/gatewaytest"
	"vo-directory/internal/infra/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend  *gatewaytest.Backend
	service  *Service
	resolver *Resolver
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	b := gatewaytest.New()
	tokens := NewTokens("test-secret", time.Hour)
	revoked := NewRevocations(cache.NewMemory())
	return fixture{
		backend:  b,
		service:  NewService(b.Users(), tokens, revoked),
		resolver: NewResolver(tokens, revoked, b.Users()),
	}
}

func (f fixture) signIn(t *testing.T, email string, admin bool) string {
	t.Helper()
	_, err := f.service.CreateUser(context.Background(), email, "passw0rd!", admin)
	require.NoError(t, err)
	token, _, err := f.service.Login(context.Background(), email, "passw0rd!")
	require.NoError(t, err)
	return token
}

func TestResolveWithoutToken(t *testing.T) {
	f := newFixture(t)
	s := f.resolver.Resolve(context.Background(), "")
	assert.Equal(t, access.Anonymous(), s)
	assert.False(t, s.IsLoading)
}

func TestResolveGarbageToken(t *testing.T) {
	f := newFixture(t)
	s := f.resolver.Resolve(context.Background(), "not-a-jwt")
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsAdmin)
}

func TestResolveAdminFlagFromProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.resolver.Resolve(ctx, f.signIn(t, "admin@vo.test", true))
	assert.True(t, admin.IsAuthenticated)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin@vo.test", admin.Email)

	member := f.resolver.Resolve(ctx, f.signIn(t, "member@vo.test", false))
	assert.True(t, member.IsAuthenticated)
	assert.False(t, member.IsAdmin)
}

func TestResolveProfileLookupErrorIsNotAdmin(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "admin@vo.test", true)
	f.backend.FailOn(gatewaytest.OpProfileGet, errors.New("connection reset"))

	var s access.Session
	require.NotPanics(t, func() { s = f.resolver.Resolve(context.Background(), token) })
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, access.RedirectHome, access.Decide(s))
}

func TestResolveMissingProfileIsNotAdmin(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "admin@vo.test", true)
	claims, err := f.service.Tokens().Parse(token)
	require.NoError(t, err)
	f.backend.DropProfile(claims.UserID)

	s := f.resolver.Resolve(context.Background(), token)
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsAdmin)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.signIn(t, "admin@vo.test", true)

	s := f.resolver.Resolve(ctx, token)
	require.True(t, s.IsAuthenticated)

	require.NoError(t, f.service.Logout(ctx, s))
	assert.Equal(t, access.Anonymous(), f.resolver.Resolve(ctx, token))
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	start := time.Unix(1700000000, 0)
	tokens.now = func() time.Time { return start }

	raw, _, err := tokens.Issue(users.User{ID: 1, Email: "a@vo.test"})
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	require.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens("other-secret", time.Hour)
	foreign, _, err := other.Issue(users.User{ID: 1})
	require.NoError(t, err)
	_, err = NewTokens("test-secret", time.Hour).Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.CreateUser(ctx, "Jane@VO.test", "passw0rd!", false)
	require.NoError(t, err)

	_, claims, err := f.service.Login(ctx, "jane@vo.test", "passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "jane@vo.test", claims.Email)

	_, _, err = f.service.Login(ctx, "jane@vo.test", "wrong")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, _, err = f.service.Login(ctx, "nobody@vo.test", "passw0rd!")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.service.CreateUser(ctx, "jane@vo.test", "passw0rd!", false)
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.ChangePassword(ctx, u.ID, "passw0rd!", "short"), ErrWeakPassword)
	assert.ErrorIs(t, f.service.ChangePassword(ctx, u.ID, "wrong", "newpassw0rd"), users.ErrInvalidCredentials)
	require.NoError(t, f.service.ChangePassword(ctx, u.ID, "passw0rd!", "newpassw0rd"))

	_, _, err = f.service.Login(ctx, "jane@vo.test", "newpassw0rd")
	assert.NoError(t, err)
}

func TestSignInGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing, err := f.service.CreateUser(ctx, "jane@vo.test", "passw0rd!", true)
	require.NoError(t, err)

	// links to the existing account by email
	_, claims, err := f.service.SignInGoogle(ctx, GoogleIdentity{Sub: "g-1", Email: "jane@vo.test"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, claims.UserID)

	linked, err := f.backend.Users().FindByGoogleSub(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)

	// unknown identity becomes a new non-admin user
	raw, claims, err := f.service.SignInGoogle(ctx, GoogleIdentity{Sub: "g-2", Email: "new@vo.test"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, claims.UserID)
	s := f.resolver.Resolve(ctx, raw)
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsAdmin)
}
