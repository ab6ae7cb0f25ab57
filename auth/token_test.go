package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/auth"
)

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenManager("", "privmedia", time.Hour)
	assert.ErrorIs(t, err, privmedia.ErrInvalidConfig)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	ctx := context.Background()
	m, err := auth.NewTokenManager("secret", "privmedia", time.Hour)
	require.NoError(t, err)

	raw, issued, err := m.Issue(ctx, "42", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "42", issued.UserID)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, time.Hour, issued.ExpiresAt.Sub(issued.IssuedAt))

	parsed, err := m.Parse(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, issued.UserID, parsed.UserID)
	assert.Equal(t, issued.TokenID, parsed.TokenID)
	assert.True(t, issued.ExpiresAt.Equal(parsed.ExpiresAt))
}

func TestTokenManager_Issue_CustomTTL(t *testing.T) {
	m, err := auth.NewTokenManager("secret", "", 0)
	require.NoError(t, err)

	_, cl, err := m.Issue(context.Background(), "42", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cl.ExpiresAt.Sub(cl.IssuedAt))

	_, _, err = m.Issue(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, privmedia.ErrInvalidInput)
}

func TestTokenManager_Parse_Rejects(t *testing.T) {
	ctx := context.Background()
	m, err := auth.NewTokenManager("secret", "privmedia", time.Hour)
	require.NoError(t, err)

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    "privmedia",
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	noSubject := valid
	noSubject.Subject = ""

	other, err := auth.NewTokenManager("other-secret", "privmedia", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(ctx, "42", 0)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not-a-jwt"},
		{name: "empty", raw: ""},
		{name: "wrong secret", raw: foreign},
		{name: "expired", raw: sign(t, jwt.SigningMethodHS256, []byte("secret"), expired)},
		{name: "wrong issuer", raw: sign(t, jwt.SigningMethodHS256, []byte("secret"), wrongIssuer)},
		{name: "no expiry", raw: sign(t, jwt.SigningMethodHS256, []byte("secret"), noExpiry)},
		{name: "no subject", raw: sign(t, jwt.SigningMethodHS256, []byte("secret"), noSubject)},
		{name: "hs512", raw: sign(t, jwt.SigningMethodHS512, []byte("secret"), valid)},
		{name: "none alg", raw: sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(ctx, tt.raw)
			assert.ErrorIs(t, err, privmedia.ErrUnauthorized)
		})
	}
}
