package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator verifies session tokens issued by the identity provider.
type Authenticator interface {
	ValidateToken(token string) (*jwt.Token, error)
	GenerateToken(userID string, ttl time.Duration) (string, error)
}
