package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/metrics"
)

// IdentityResolver derives the identity of a request.
type IdentityResolver interface {
	Resolve(r *http.Request) privmedia.Identity
}

// IdentityMiddleware stores the identity resolved for each request in its
// context. A nil resolver makes every request anonymous.
func IdentityMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := privmedia.Anonymous()
			if resolver != nil {
				id = resolver.Resolve(r)
			}

			metrics.IdentitiesResolved.WithLabelValues(
				metrics.IdentityKind(id.Authenticated, id.Staff, id.Superuser),
			).Inc()

			next.ServeHTTP(w, r.WithContext(privmedia.WithIdentity(r.Context(), id)))
		})
	}
}

// RequestLogger logs method, path, status and duration of every request at
// debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
