package auth

import (
	"context"
	"errors"

	"vo-directory/internal/domain/access"
	"vo-directory/internal/domain/users"
	"vo-directory/internal/gateway"
)

var ErrWeakPassword = errors.New("password must be at least 8 characters long and contain both letters and numbers")

// Service implements sign-in, sign-out and password changes.
type Service struct {
	users   gateway.UserStore
	tokens  *Tokens
	revoked *Revocations
}

func NewService(u gateway.UserStore, tokens *Tokens, revoked *Revocations) *Service {
	return &Service{users: u, tokens: tokens, revoked: revoked}
}

func (s *Service) Tokens() *Tokens { return s.tokens }

// Login hides whether the email exists behind ErrInvalidCredentials.
// Accounts without a password report ErrNoPassword so the page can point to
// Google sign-in.
func (s *Service) Login(ctx context.Context, email, password string) (string, Claims, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return "", Claims{}, users.ErrInvalidCredentials
	}
	if err != nil {
		return "", Claims{}, err
	}
	if err := users.CheckPassword(u, password); err != nil {
		return "", Claims{}, err
	}
	return s.tokens.Issue(u)
}

func (s *Service) Logout(ctx context.Context, session access.Session) error {
	if !session.IsAuthenticated || session.TokenID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if !users.IsPasswordStrong(newPassword) {
		return ErrWeakPassword
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := users.CheckPassword(u, oldPassword); err != nil {
		return err
	}
	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// CreateUser is used by the operator CLI.
func (s *Service) CreateUser(ctx context.Context, email, password string, isAdmin bool) (users.User, error) {
	if !users.IsPasswordStrong(password) {
		return users.User{}, ErrWeakPassword
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return users.User{}, err
	}
	u := users.User{Email: email, PasswordHash: &hash, AuthProvider: users.ProviderLocal}
	if err := s.users.Create(ctx, &u, isAdmin); err != nil {
		return users.User{}, err
	}
	return u, nil
}

func (s *Service) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.users.SetAdmin(ctx, u.ID, isAdmin)
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Sub   string
	Email string
}

// SignInGoogle finds the user by Google subject, then by email (linking the
// subject), and creates a non-admin user otherwise.
func (s *Service) SignInGoogle(ctx context.Context, id GoogleIdentity) (string, Claims, error) {
	u, err := s.users.FindByGoogleSub(ctx, id.Sub)
	switch {
	case err == nil:
	case errors.Is(err, users.ErrNotFound):
		u, err = s.users.FindByEmail(ctx, id.Email)
		switch {
		case err == nil:
			if u.GoogleSub == nil {
				if err := s.users.LinkGoogle(ctx, u.ID, id.Sub); err != nil {
					return "", Claims{}, err
				}
			}
		case errors.Is(err, users.ErrNotFound):
			sub := id.Sub
			u = users.User{Email: id.Email, AuthProvider: users.ProviderGoogle, GoogleSub: &sub}
			if err := s.users.Create(ctx, &u, false); err != nil {
				return "", Claims{}, err
			}
		default:
			return "", Claims{}, err
		}
	default:
		return "", Claims{}, err
	}
	return s.tokens.Issue(u)
}
