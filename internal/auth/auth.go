package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "storefront"

// DefaultTokenTTL is the validity window of an issued token. There is no
// revocation list: identity changes made after issuance only take effect
// once the token expires and the user signs in again.
const DefaultTokenTTL = 48 * time.Hour

// Identity is the set of user attributes embedded in every issued token.
type Identity struct {
	UserID  string
	Name    string
	Email   string
	IsAdmin bool
}

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Identity returns the identity embedded in verified claims, verbatim.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:  c.Subject,
		Name:    c.Name,
		Email:   c.Email,
		IsAdmin: c.IsAdmin,
	}
}

// Service signs and verifies bearer tokens using HS256. The secret is
// injected at construction so tests can run with distinct secrets.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a token service around the given signing secret.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token embedding the identity and an expiry ttl from now.
func (s *Service) Issue(id Identity) (string, time.Time, error) {
	userID := strings.TrimSpace(id.UserID)
	if userID == "" {
		return "", time.Time{}, errors.New("auth: user id is required")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Name:    id.Name,
		Email:   id.Email,
		IsAdmin: id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// An expired but otherwise well-formed token fails with ErrTokenExpired,
// everything else with ErrInvalidToken. No user record is consulted.
func (s *Service) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
