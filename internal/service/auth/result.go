package auth

import "github.com/heartmarshall/pallettrack-backend/internal/domain"

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	AccessToken string
	User        domain.User
}
