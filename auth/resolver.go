package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sagarc03/privmedia"
)

// TokenQueryParam carries a bearer token in the query string, for clients
// that cannot set headers (e.g. <img src>).
const TokenQueryParam = "token"

// Resolver derives the identity of a request. Nil token manager or presigner
// disables that credential kind.
type Resolver struct {
	users     privmedia.UserStore
	tokens    *TokenManager
	presigner *Presigner
}

func NewResolver(users privmedia.UserStore, tokens *TokenManager, presigner *Presigner) *Resolver {
	return &Resolver{users: users, tokens: tokens, presigner: presigner}
}

// Resolve returns the identity of r, or the anonymous identity when r has no
// valid credential or names an unknown or inactive user.
func (res *Resolver) Resolve(r *http.Request) privmedia.Identity {
	ctx := r.Context()

	userID, source, err := res.credential(r)
	if err != nil {
		slog.DebugContext(ctx, "rejected credential", "source", source, "err", err)
		return privmedia.Anonymous()
	}
	if userID == "" || res.users == nil {
		return privmedia.Anonymous()
	}

	u, err := res.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, privmedia.ErrNotFound) {
			slog.DebugContext(ctx, "credential names unknown user", "source", source, "user", userID)
		} else {
			slog.WarnContext(ctx, "user lookup failed", "source", source, "user", userID, "err", err)
		}
		return privmedia.Anonymous()
	}

	return u.Identity()
}

// credential returns the user ID carried by r. An empty ID with a nil error
// means no credential was presented.
func (res *Resolver) credential(r *http.Request) (string, string, error) {
	query := r.URL.Query()

	if res.presigner != nil && IsPresigned(query) {
		id, err := res.presigner.Verify(r.Method, r.URL.Path, query)
		return id, "presigned", err
	}

	if res.tokens == nil {
		return "", "", nil
	}

	if raw, ok := bearerToken(r.Header.Get("Authorization")); ok {
		cl, err := res.tokens.Parse(r.Context(), raw)
		return cl.UserID, "bearer", err
	}

	if raw := query.Get(TokenQueryParam); raw != "" {
		cl, err := res.tokens.Parse(r.Context(), raw)
		return cl.UserID, "query", err
	}

	return "", "", nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
