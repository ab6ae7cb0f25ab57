package privmedia

import (
	"fmt"
	"log/slog"
	"net/http"
)

// DispatcherConfig holds the collaborators of a Dispatcher.
type DispatcherConfig struct {
	// Checker decides read access. Defaults to DefaultPermissions.
	Checker PermissionChecker
	// Server delivers allowed files. Required.
	Server FileServer
	// Mode selects how denied requests are reported.
	Mode Mode
}

// Dispatcher is the entry point for private file requests: it checks read
// permission and hands allowed requests to the configured FileServer.
//
// A Dispatcher holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	checker PermissionChecker
	server  FileServer
	mode    Mode
}

func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("new dispatcher: %w: invalid mode: %s", ErrInvalidConfig, cfg.Mode)
	}

	if cfg.Server == nil {
		return nil, fmt.Errorf("new dispatcher: %w: file server is required", ErrInvalidConfig)
	}

	checker := cfg.Checker
	if checker == nil {
		checker = DefaultPermissions{}
	}

	return &Dispatcher{
		checker: checker,
		server:  cfg.Server,
		mode:    cfg.Mode,
	}, nil
}

func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Serve delivers path to the identity carried by r's context.
//
// Denied requests fail with ErrForbidden in debug mode and ErrNotFound in
// production mode. Errors from the FileServer are returned wrapped, so a
// missing file is also ErrNotFound. Nothing is written to w on error.
func (d *Dispatcher) Serve(w http.ResponseWriter, r *http.Request, path string) error {
	ctx := r.Context()
	id := IdentityFromContext(ctx)

	slog.DebugContext(ctx, "serving private file", "path", path, "user", id.String())

	if !IsValidPath(path) {
		if d.mode == ModeDebug {
			return fmt.Errorf("serve %q: %w", path, ErrInvalidInput)
		}
		return fmt.Errorf("serve %q: %w", path, ErrNotFound)
	}

	if !d.checker.HasReadPermission(ctx, id, path) {
		if d.mode == ModeDebug {
			return fmt.Errorf("serve %s: %w", path, ErrForbidden)
		}
		return fmt.Errorf("serve %s: %w", path, ErrNotFound)
	}

	if err := d.server.Serve(w, r, path); err != nil {
		return fmt.Errorf("serve %s: %w", path, err)
	}

	return nil
}
