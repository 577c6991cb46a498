package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for expired, malformed or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried in an access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with the given signing secret and token
// lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed access token for the given user.
func (t *TokenIssuer) Issue(userID, email, role string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	})
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &Claims{UserID: sub, Email: email, Role: role}, nil
}

// TTLSeconds returns the configured token lifetime in seconds, for the
// expires_in field of login responses.
func (t *TokenIssuer) TTLSeconds() int {
	return int(t.ttl.Seconds())
}
