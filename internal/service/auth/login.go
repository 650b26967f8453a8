package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// Login authenticates one of the built-in accounts with username + password.
// Returns ErrUnauthorized when the username is unknown or the password is
// wrong. On success the active-login marker is stored; with RememberMe the
// remembered-login marker is persisted as well, otherwise any previous marker
// is cleared.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	acc, ok := s.accounts[input.Username]
	if !ok || !s.checkPassword(acc, input.Password) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(acc.user.Username, acc.user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth.Login generate token: %w", err)
	}

	userJSON, err := json.Marshal(acc.user)
	if err != nil {
		return nil, fmt.Errorf("auth.Login marshal user: %w", err)
	}
	if err := s.ephemeral.Set(ctx, keyCurrentUser, userJSON); err != nil {
		return nil, fmt.Errorf("auth.Login store current user: %w", err)
	}

	if input.RememberMe {
		remembered, err := json.Marshal(domain.RememberedUser{
			Username:   acc.user.Username,
			RememberMe: true,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.Login marshal remembered user: %w", err)
		}
		if err := s.durable.Set(ctx, keyRememberUser, remembered); err != nil {
			return nil, fmt.Errorf("auth.Login store remembered user: %w", err)
		}
	} else if err := s.durable.Remove(ctx, keyRememberUser); err != nil {
		return nil, fmt.Errorf("auth.Login clear remembered user: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("username", acc.user.Username),
		slog.Bool("remember_me", input.RememberMe),
	)

	return &AuthResult{AccessToken: token, User: acc.user}, nil
}
