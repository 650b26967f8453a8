package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// CurrentUser returns the account behind the active-login marker.
// Returns ErrNotFound when nobody is logged in.
func (s *Service) CurrentUser(ctx context.Context) (domain.User, error) {
	raw, err := s.ephemeral.Get(ctx, keyCurrentUser)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("auth.CurrentUser: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("auth.CurrentUser unmarshal: %w", err)
	}
	return user, nil
}

// RememberedUser returns the persisted remembered-login marker, used to
// pre-fill the login form after a restart. Returns ErrNotFound when no login
// was remembered.
func (s *Service) RememberedUser(ctx context.Context) (domain.RememberedUser, error) {
	raw, err := s.durable.Get(ctx, keyRememberUser)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RememberedUser{}, domain.ErrNotFound
		}
		return domain.RememberedUser{}, fmt.Errorf("auth.RememberedUser: %w", err)
	}

	var remembered domain.RememberedUser
	if err := json.Unmarshal(raw, &remembered); err != nil {
		return domain.RememberedUser{}, fmt.Errorf("auth.RememberedUser unmarshal: %w", err)
	}
	return remembered, nil
}

// ValidateToken validates an access token and returns the account it was
// issued to. Returns ErrUnauthorized if the token is invalid, expired, or
// names an unknown account.
func (s *Service) ValidateToken(_ context.Context, token string) (domain.User, error) {
	username, _, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	acc, ok := s.accounts[username]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	return acc.user, nil
}
