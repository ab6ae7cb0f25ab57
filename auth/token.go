package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sagarc03/privmedia"
)

// DefaultTokenTTL is used when neither the manager nor Issue is given a TTL.
const DefaultTokenTTL = 24 * time.Hour

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256 JWTs.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

type jwtClaims struct {
	jwt.RegisteredClaims
}

// NewTokenManager returns a manager signing with secret. A non-empty issuer
// is set on issued tokens and required on parsed ones.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("new token manager: %w: secret is required", privmedia.ErrInvalidConfig)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs a token for userID valid for ttl, or the manager's TTL when ttl
// is zero.
func (m *TokenManager) Issue(_ context.Context, userID string, ttl time.Duration) (string, Claims, error) {
	if userID == "" {
		return "", Claims{}, fmt.Errorf("issue token: %w: user id is required", privmedia.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	now := time.Now().UTC().Truncate(time.Second)
	cl := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, Claims{
		UserID:    userID,
		TokenID:   cl.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Parse verifies the signature, expiry and issuer of raw. All failures wrap
// privmedia.ErrUnauthorized.
func (m *TokenManager) Parse(_ context.Context, raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var cl jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w: %w", privmedia.ErrUnauthorized, err)
	}
	if !tkn.Valid {
		return Claims{}, fmt.Errorf("parse token: %w: %w", privmedia.ErrUnauthorized, jwt.ErrTokenInvalidClaims)
	}
	if cl.Subject == "" {
		return Claims{}, fmt.Errorf("parse token: %w: %w", privmedia.ErrUnauthorized, errors.New("missing subject"))
	}

	out := Claims{UserID: cl.Subject, TokenID: cl.ID}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		out.ExpiresAt = cl.ExpiresAt.Time
	}
	return out, nil
}
