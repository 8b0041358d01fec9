// Package auth implements the token codec and password hashing used by the
// authentication flow. Tokens are HS256-signed JWTs carrying the identity
// claims; validity is established purely by signature (and expiry) checks,
// there is no server-side session state.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/babalolajnr/todo-api/internal/common"
)

// ErrEmptySecret is returned when signing is attempted without a secret.
var ErrEmptySecret = errors.New("empty signing secret")

// Claims are the identity facts embedded in a token. The JSON claim names
// (id, name, email) are part of the wire format.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Identity is the request-scoped, trusted representation of the caller,
// produced from verified claims. It is never persisted.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// NewClaims is the single claims constructor used by both the signing and
// the resolving side, so the claim set cannot drift between them.
func NewClaims(userID, name, email string, validity time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
		Name:   name,
		Email:  email,
	}
}

// Identity validates the claim shape and converts it into an Identity.
// The user ID must be a UUID and every identity claim must be present;
// tokens failing the shape check yield common.ErrUnauthorized.
func (c *Claims) Identity() (*Identity, error) {
	if c.UserID == "" || c.Name == "" || c.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claim", common.ErrUnauthorized)
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return nil, fmt.Errorf("%w: malformed user id claim", common.ErrUnauthorized)
	}
	return &Identity{ID: c.UserID, Name: c.Name, Email: c.Email}, nil
}

// GenerateToken signs the claims with the process secret using HS256.
func GenerateToken(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// claims that were signed. Malformed, forged, expired, or algorithm-mismatched
// tokens all map to common.ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
