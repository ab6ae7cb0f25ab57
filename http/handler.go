package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/metrics"
)

// Dispatcher serves one private file. *privmedia.Dispatcher implements it.
type Dispatcher interface {
	Serve(w http.ResponseWriter, r *http.Request, path string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// URLPrefix is where private files are mounted, e.g. "/private/".
	URLPrefix string
	// ServerName labels dispatch metrics, e.g. "direct".
	ServerName string
	// Metrics mounts /metrics.
	Metrics bool
	CORS    CORSConfig
}

// Handler routes private file requests to a Dispatcher.
type Handler struct {
	config     HandlerConfig
	prefix     string
	dispatcher Dispatcher
	resolver   IdentityResolver
}

// NewHandler creates a new Handler. resolver may be nil, in which case every
// request is anonymous.
func NewHandler(config *HandlerConfig, dispatcher Dispatcher, resolver IdentityResolver) *Handler {
	return &Handler{
		config:     *config,
		prefix:     NormalizePrefix(config.URLPrefix),
		dispatcher: dispatcher,
		resolver:   resolver,
	}
}

// NormalizePrefix returns p with exactly one leading and one trailing slash.
// An empty prefix mounts files at the root.
func NormalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// Router returns an http.Handler serving GET and HEAD under the URL prefix,
// plus /healthz and, when enabled, /metrics.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/healthz", h.handleHealth)

	if h.config.Metrics {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(IdentityMiddleware(h.resolver))
		r.Get(h.prefix+"*", h.handleFile)
		r.Head(h.prefix+"*", h.handleFile)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
	})

	return promhttp.InstrumentHandlerInFlight(metrics.InFlightRequests, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, h.prefix)

	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	start := time.Now()

	err := h.dispatcher.Serve(ww, r, path)

	metrics.DispatchDuration.WithLabelValues(h.config.ServerName).Observe(time.Since(start).Seconds())
	metrics.DispatchTotal.WithLabelValues(h.config.ServerName, outcome(err, ww.Status())).Inc()

	if err != nil {
		HandleError(ww, r, err)
	}
}

func outcome(err error, status int) string {
	switch {
	case err == nil && status == http.StatusNotModified:
		return metrics.OutcomeNotModified
	case err == nil:
		return metrics.OutcomeServed
	case errors.Is(err, privmedia.ErrForbidden):
		return metrics.OutcomeDenied
	case errors.Is(err, privmedia.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, privmedia.ErrInvalidInput):
		return metrics.OutcomeInvalidPath
	default:
		return metrics.OutcomeError
	}
}
