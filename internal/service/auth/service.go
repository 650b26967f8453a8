package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/pallettrack-backend/internal/config"
	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// Storage keys for login state. The remembered-login marker survives
// restarts; the active-login marker does not.
const (
	keyCurrentUser  = "current-session-user"
	keyRememberUser = "session-remember"
)

// kvStore defines the key-value storage interface needed by the auth service.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// jwtManager defines the JWT token management interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(username string, role string) (string, error)
	ValidateAccessToken(token string) (string, string, error)
}

// account is one entry of the built-in credential table.
type account struct {
	user         domain.User
	passwordHash string
}

// Service implements auth operations for the fixed operator account set.
type Service struct {
	log       *slog.Logger
	durable   kvStore
	ephemeral kvStore
	jwt       jwtManager
	accounts  map[string]account
}

// NewService creates a new auth service instance. The account table is fixed;
// cfg supplies the bcrypt hashes, and an account with an empty hash cannot
// log in.
func NewService(logger *slog.Logger, durable, ephemeral kvStore, jwt jwtManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:       logger.With("service", "auth"),
		durable:   durable,
		ephemeral: ephemeral,
		jwt:       jwt,
		accounts: map[string]account{
			"admin": {
				user:         domain.User{Username: "admin", Name: "Administrator", Role: domain.RoleAdmin},
				passwordHash: cfg.AdminPasswordHash,
			},
			"operator": {
				user:         domain.User{Username: "operator", Name: "Shift Operator", Role: domain.RoleOperator},
				passwordHash: cfg.OperatorPasswordHash,
			},
			"user": {
				user:         domain.User{Username: "user", Name: "Warehouse User", Role: domain.RoleUser},
				passwordHash: cfg.UserPasswordHash,
			},
		},
	}
}

// checkPassword verifies the password against the account's bcrypt hash.
func (s *Service) checkPassword(acc account, password string) bool {
	if acc.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) == nil
}
