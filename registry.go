package privmedia

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Options holds the constructor options of a checker or server as read from
// configuration.
type Options map[string]any

// ServerEnv is what a FileServer constructor gets besides its options.
type ServerEnv struct {
	// Root is the private root directory opened as an os.Root.
	Root *os.Root
}

type CheckerFactory func(opts Options) (PermissionChecker, error)

type ServerFactory func(env ServerEnv, opts Options) (FileServer, error)

// Registry maps configured names to checker and server constructors. It is
// filled in before startup and only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]CheckerFactory
	servers  map[string]ServerFactory
}

// NewRegistry returns a registry with the "default" and "owner" permission
// checkers registered. File servers are registered by the servers package.
func NewRegistry() *Registry {
	r := &Registry{
		checkers: make(map[string]CheckerFactory),
		servers:  make(map[string]ServerFactory),
	}

	r.RegisterChecker("default", func(opts Options) (PermissionChecker, error) {
		if err := DecodeOptions(opts, &struct{}{}); err != nil {
			return nil, err
		}
		return DefaultPermissions{}, nil
	})

	r.RegisterChecker("owner", func(opts Options) (PermissionChecker, error) {
		o := OwnerOptions{Segment: 1}
		if err := DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		if o.Segment < 0 {
			return nil, fmt.Errorf("owner permissions: %w: segment must be >= 0", ErrInvalidConfig)
		}
		return NewOwnerPermissions(o), nil
	})

	return r
}

func (r *Registry) RegisterChecker(name string, f CheckerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = f
}

func (r *Registry) RegisterServer(name string, f ServerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[name] = f
}

// NewChecker builds the permission checker registered as name.
func (r *Registry) NewChecker(name string, opts Options) (PermissionChecker, error) {
	r.mu.RLock()
	f, ok := r.checkers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("new checker: %w: unknown permission checker %q (known: %v)", ErrInvalidConfig, name, r.checkerNames())
	}

	c, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("new checker %s: %w", name, err)
	}

	return c, nil
}

// NewServer builds the file server registered as name.
func (r *Registry) NewServer(name string, env ServerEnv, opts Options) (FileServer, error) {
	r.mu.RLock()
	f, ok := r.servers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("new server: %w: unknown file server %q (known: %v)", ErrInvalidConfig, name, r.serverNames())
	}

	s, err := f(env, opts)
	if err != nil {
		return nil, fmt.Errorf("new server %s: %w", name, err)
	}

	return s, nil
}

func (r *Registry) checkerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) serverNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeOptions decodes opts into the struct pointed to by out using its
// mapstructure tags. Unknown keys are an error.
func DecodeOptions(opts Options, out any) error {
	if len(opts) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("decode options: %w", err)
	}

	if err := dec.Decode(map[string]any(opts)); err != nil {
		return fmt.Errorf("decode options: %w: %w", ErrInvalidConfig, err)
	}

	return nil
}
