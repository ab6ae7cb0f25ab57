package userbackend

import "github.com/sagarc03/privmedia"

// UsersConfig holds configuration for loading static users.
type UsersConfig struct {
	Inline []UserEntry `mapstructure:"inline"` // Inline users from config
	File   string      `mapstructure:"file"`   // Path to JSON file containing users
}

// NewUserStore creates a UserStore from the given configuration.
// It loads users from both inline config and file (if specified),
// merging them into a single store. File users take precedence over inline
// users with the same ID.
func NewUserStore(cfg UsersConfig) (*MapUserStore, error) {
	users := make(map[string]privmedia.User)

	for _, e := range cfg.Inline {
		if e.ID != "" {
			users[e.ID] = e.User()
		}
	}

	if cfg.File != "" {
		fileUsers, err := LoadUsersFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for id, u := range fileUsers {
			users[id] = u
		}
	}

	return NewMapUserStore(users), nil
}
