package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/auth"
	"github.com/sagarc03/privmedia/config"
	"github.com/sagarc03/privmedia/database"
	"github.com/sagarc03/privmedia/filesystem"
	privhttp "github.com/sagarc03/privmedia/http"
	"github.com/sagarc03/privmedia/servers"
	"github.com/sagarc03/privmedia/userbackend"
)

// openRoot opens the private storage directory by its absolute path, creating
// it when create is set. The caller closes the returned root.
func openRoot(storagePath string, create bool) (*os.Root, error) {
	if create {
		if err := os.MkdirAll(storagePath, 0o750); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	} else if _, err := os.Stat(storagePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("storage directory does not exist: %s", storagePath)
	}

	abs, err := filepath.Abs(storagePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open storage root: %w", err)
	}
	return root, nil
}

func openStore(cfg *config.Config, create bool) (*filesystem.Store, func(), error) {
	root, err := openRoot(cfg.Storage.Path, create)
	if err != nil {
		return nil, nil, err
	}
	return filesystem.NewFileStorage(root, privhttp.NormalizePrefix(cfg.Server.URLPrefix)), func() { _ = root.Close() }, nil
}

// openUsers returns the user store selected by users.backend.
func openUsers(ctx context.Context, cfg *config.Config) (privmedia.UserStore, func(), error) {
	switch cfg.Users.Backend {
	case "database":
		repo, closeDB, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		slog.Info("connected to database", "type", cfg.Database.Type)
		return repo, closeDB, nil
	default:
		store, err := userbackend.NewUserStore(cfg.Users.UsersConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("load users: %w", err)
		}
		slog.Info("loaded static users", "count", store.Len())
		return store, func() {}, nil
	}
}

// openUserRepo connects to the users database. User management always works
// against the database, whichever backend serve reads from.
func openUserRepo(ctx context.Context, cfg *config.Config) (privmedia.UserRepo, func(), error) {
	if cfg.Users.Backend != "database" {
		slog.Warn("users.backend is not database, serve will not see these users", "backend", cfg.Users.Backend)
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return repo, closeDB, nil
}

func newTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	return auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
}

// newResolver builds the request identity resolver. Without a secret every
// request is anonymous.
func newResolver(cfg *config.Config, users privmedia.UserStore) (*auth.Resolver, error) {
	if cfg.Auth.Secret == "" {
		slog.Warn("auth.secret is empty, all requests are anonymous")
		return auth.NewResolver(users, nil, nil), nil
	}

	tokens, err := newTokenManager(cfg)
	if err != nil {
		return nil, err
	}

	presigner, err := auth.NewPresigner(cfg.Auth.Secret)
	if err != nil {
		return nil, err
	}

	return auth.NewResolver(users, tokens, presigner), nil
}

// newDispatcher builds the configured permission checker and file server
// over root and wraps them in a Dispatcher.
func newDispatcher(cfg *config.Config, root *os.Root) (*privmedia.Dispatcher, error) {
	mode, err := cfg.Server.ParsedMode()
	if err != nil {
		return nil, fmt.Errorf("parse server mode: %w", err)
	}

	reg := privmedia.NewRegistry()
	servers.Register(reg)

	checker, err := reg.NewChecker(cfg.Files.Permissions, cfg.Files.PermissionsOptions)
	if err != nil {
		return nil, err
	}

	server, err := reg.NewServer(cfg.Files.Server, privmedia.ServerEnv{Root: root}, cfg.Files.ServerOptions)
	if err != nil {
		return nil, err
	}

	return privmedia.NewDispatcher(privmedia.DispatcherConfig{
		Checker: checker,
		Server:  server,
		Mode:    mode,
	})
}
