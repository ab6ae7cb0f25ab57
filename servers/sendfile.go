package servers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/filesystem"
)

// DefaultSendfileHeader is understood by Apache mod_xsendfile and lighttpd.
const DefaultSendfileHeader = "X-Sendfile"

// SendfileOptions configures Sendfile.
type SendfileOptions struct {
	// Header names the response header the proxy reads, e.g. X-Sendfile or
	// X-Accel-Redirect.
	Header string `mapstructure:"header"`
	// InternalPrefix, when set, makes the header carry the path under this
	// internal location (as nginx expects) instead of the absolute path.
	InternalPrefix string `mapstructure:"internal_prefix"`
	// VerifyExists stats the file so a missing file is reported as not
	// found instead of being left to the proxy.
	VerifyExists bool `mapstructure:"verify_exists"`
	// ContentDisposition is "", "inline" or "attachment".
	ContentDisposition string `mapstructure:"content_disposition"`
}

// Sendfile delegates file transfer to a front-end proxy. It never reads file
// contents; the response body is always empty.
type Sendfile struct {
	store          *filesystem.Store
	header         string
	internalPrefix string
	verifyExists   bool
	disposition    string
}

func NewSendfile(store *filesystem.Store, opts SendfileOptions) (*Sendfile, error) {
	if store == nil {
		return nil, fmt.Errorf("new sendfile server: %w: storage is required", privmedia.ErrInvalidConfig)
	}

	if !validDisposition(opts.ContentDisposition) {
		return nil, fmt.Errorf("new sendfile server: %w: invalid content_disposition %q", privmedia.ErrInvalidConfig, opts.ContentDisposition)
	}

	header := opts.Header
	if header == "" {
		header = DefaultSendfileHeader
	}

	return &Sendfile{
		store:          store,
		header:         http.CanonicalHeaderKey(header),
		internalPrefix: opts.InternalPrefix,
		verifyExists:   opts.VerifyExists,
		disposition:    opts.ContentDisposition,
	}, nil
}

func (s *Sendfile) Serve(w http.ResponseWriter, r *http.Request, p string) error {
	fullPath, err := s.store.Path(p)
	if err != nil {
		return fmt.Errorf("sendfile: %w", err)
	}

	if s.verifyExists {
		if _, err := s.store.Stat(r.Context(), p); err != nil {
			return fmt.Errorf("sendfile: %w", err)
		}
	}

	target := fullPath
	if s.internalPrefix != "" {
		target = strings.TrimSuffix(s.internalPrefix, "/") + "/" + p
	}

	h := w.Header()
	h.Set(s.header, target)
	h.Set("Content-Type", privmedia.ContentType(p))
	setContentDisposition(h, s.disposition, p)
	w.WriteHeader(http.StatusOK)

	return nil
}
