package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kwiens/seeds/internal/models"
)

// DefaultSessionTTL is how long an issued session token stays valid
const DefaultSessionTTL = 24 * time.Hour

// SessionIssuer mints signed session tokens for provisioned users
type SessionIssuer struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	TTL          time.Duration
	now          func() time.Time
}

// NewSessionIssuer creates an HS256 issuer with the default TTL
func NewSessionIssuer(key []byte) *SessionIssuer {
	return &SessionIssuer{
		SignedKey:    key,
		SignedMethod: jwt.SigningMethodHS256,
		TTL:          DefaultSessionTTL,
		now:          time.Now,
	}
}

// Issue signs a token carrying the user's id and role.
// The role claim is informational; requests re-read the stored role.
func (g *SessionIssuer) Issue(user *models.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("cannot issue token: no user ID available")
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	now := g.now()
	claims := jwt.MapClaims{
		"uid":  user.ID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(g.TTL).Unix(),
	}

	token := jwt.NewWithClaims(g.SignedMethod, claims)
	signed, err := token.SignedString(g.SignedKey)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}
