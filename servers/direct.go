package servers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/filesystem"
)

// DirectOptions configures Direct.
type DirectOptions struct {
	// ContentDisposition is "", "inline" or "attachment".
	ContentDisposition string `mapstructure:"content_disposition"`
}

// Direct serves files by reading them from private storage.
type Direct struct {
	store       *filesystem.Store
	disposition string
}

func NewDirect(store *filesystem.Store, opts DirectOptions) (*Direct, error) {
	if store == nil {
		return nil, fmt.Errorf("new direct server: %w: storage is required", privmedia.ErrInvalidConfig)
	}

	if !validDisposition(opts.ContentDisposition) {
		return nil, fmt.Errorf("new direct server: %w: invalid content_disposition %q", privmedia.ErrInvalidConfig, opts.ContentDisposition)
	}

	return &Direct{store: store, disposition: opts.ContentDisposition}, nil
}

// Serve writes the file at p. It answers 304 Not Modified with no body when
// the If-Modified-Since header shows the client copy is current, and 200 with
// the whole file otherwise. Range requests are not supported.
func (s *Direct) Serve(w http.ResponseWriter, r *http.Request, p string) error {
	f, info, err := s.store.Open(r.Context(), p)
	if err != nil {
		return fmt.Errorf("direct: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := w.Header()
	h.Set("Content-Type", privmedia.ContentType(p))

	if !wasModifiedSince(r.Header.Get("If-Modified-Since"), info.ModTime(), info.Size()) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	h.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	setContentDisposition(h, s.disposition, p)
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return nil
	}

	// Headers are gone, so a failed copy can only be logged. The body is
	// capped at the stated Content-Length in case the file grew after Stat.
	if _, err := io.CopyN(w, f, info.Size()); err != nil {
		slog.WarnContext(r.Context(), "failed to write file body", "path", p, "err", err)
	}

	return nil
}
