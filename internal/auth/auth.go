package auth

import (
	"errors"
	"time"
)

var ErrInvalidClaims = errors.New("token claims are missing the subject")

// Identity is the authenticated caller carried by an access token.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
}

type Authenticator interface {
	GenerateToken(id Identity, ttl time.Duration) (string, error)
	ValidateAccessToken(token string) (*Identity, error)
}
