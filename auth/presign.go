package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sagarc03/privmedia"
)

const (
	ParamUser      = "X-Privmedia-User"
	ParamExpires   = "X-Privmedia-Expires"
	ParamSignature = "X-Privmedia-Signature"

	MaxPresignTTL = 7 * 24 * time.Hour
)

// Presigner builds and verifies presigned links. A link carries the user ID,
// an absolute expiry in unix seconds and an HMAC-SHA256 signature over
// "METHOD\nPATH\nUSER\nEXPIRES".
type Presigner struct {
	secret []byte
	now    func() time.Time
}

func NewPresigner(secret string) (*Presigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("new presigner: %w: secret is required", privmedia.ErrInvalidConfig)
	}
	return &Presigner{secret: []byte(secret), now: time.Now}, nil
}

// Sign returns urlPath with the presign query parameters appended, granting
// userID method access until ttl from now. urlPath is the unescaped request
// path, e.g. "/private/cars/42/photo.jpg".
func (p *Presigner) Sign(method, urlPath, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("presign: %w: user id is required", privmedia.ErrInvalidInput)
	}
	if ttl <= 0 || ttl > MaxPresignTTL {
		return "", fmt.Errorf("presign: %w: ttl must be between 1s and %s", privmedia.ErrInvalidInput, MaxPresignTTL)
	}

	expires := strconv.FormatInt(p.now().Add(ttl).Unix(), 10)

	q := url.Values{}
	q.Set(ParamUser, userID)
	q.Set(ParamExpires, expires)
	q.Set(ParamSignature, p.signature(normalizeMethod(method), urlPath, userID, expires))

	u := url.URL{Path: urlPath, RawQuery: q.Encode()}
	return u.String(), nil
}

// IsPresigned reports whether query carries any presign parameter.
func IsPresigned(query url.Values) bool {
	return query.Has(ParamUser) || query.Has(ParamExpires) || query.Has(ParamSignature)
}

// Verify checks the presign parameters in query against method and urlPath
// and returns the signed user ID. HEAD is verified as GET. All failures wrap
// privmedia.ErrUnauthorized.
func (p *Presigner) Verify(method, urlPath string, query url.Values) (string, error) {
	userID := query.Get(ParamUser)
	expiresRaw := query.Get(ParamExpires)
	sig := query.Get(ParamSignature)

	if userID == "" || expiresRaw == "" || sig == "" {
		return "", fmt.Errorf("missing required signature parameters: %w", privmedia.ErrUnauthorized)
	}

	expires, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", ParamExpires, privmedia.ErrUnauthorized)
	}

	now := p.now()
	expiresAt := time.Unix(expires, 0)
	if !now.Before(expiresAt) {
		return "", fmt.Errorf("signature expired: %w", privmedia.ErrUnauthorized)
	}
	if expiresAt.Sub(now) > MaxPresignTTL {
		return "", fmt.Errorf("invalid %s: more than %s ahead: %w", ParamExpires, MaxPresignTTL, privmedia.ErrUnauthorized)
	}

	expected := p.signature(normalizeMethod(method), urlPath, userID, expiresRaw)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", fmt.Errorf("signature mismatch: %w", privmedia.ErrUnauthorized)
	}

	return userID, nil
}

func (p *Presigner) signature(method, urlPath, userID, expires string) string {
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(method + "\n" + urlPath + "\n" + userID + "\n" + expires))
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeMethod(method string) string {
	if method == http.MethodHead || method == "" {
		return http.MethodGet
	}
	return method
}
