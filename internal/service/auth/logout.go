package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
	"github.com/heartmarshall/pallettrack-backend/pkg/ctxutil"
)

// Logout clears the active-login marker. The remembered-login marker stays:
// it prefills the next login form and is cleared only by a login without
// remember-me. Returns ErrUnauthorized if no username is found in context.
func (s *Service) Logout(ctx context.Context) error {
	username, ok := ctxutil.UsernameFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.ephemeral.Remove(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("auth.Logout clear current user: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out", slog.String("username", username))
	return nil
}
