package privmedia

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Mode controls how denied requests are reported.
type Mode string

const (
	// ModeDebug reports denied requests as forbidden.
	ModeDebug Mode = "debug"
	// ModeProduction reports denied requests as not found, so callers cannot
	// tell a missing file from one they may not read.
	ModeProduction Mode = "production"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeDebug, ModeProduction:
		return true
	default:
		return false
	}
}

func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid server mode: %s (valid modes: debug, production)", s)
	}
	return mode, nil
}

// User is a persisted identity record.
type User struct {
	ID        string    `json:"id" mapstructure:"id"`
	Name      string    `json:"name" mapstructure:"name"`
	Active    bool      `json:"active" mapstructure:"active"`
	Staff     bool      `json:"staff" mapstructure:"staff"`
	Superuser bool      `json:"superuser" mapstructure:"superuser"`
	CreatedAt time.Time `json:"created_at" mapstructure:"-"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"-"`
}

// Identity returns the request identity for u. Inactive users are anonymous.
func (u User) Identity() Identity {
	if !u.Active {
		return Anonymous()
	}
	return Identity{
		UserID:        u.ID,
		Authenticated: true,
		Staff:         u.Staff,
		Superuser:     u.Superuser,
	}
}

// SaveResult describes a completed write to private storage.
type SaveResult struct {
	BytesWritten int64
	Etag         string
}

// FileEntry describes a file stored under the private root.
type FileEntry struct {
	Path        string
	Size        int64
	ETag        string
	ContentType string
	ModTime     time.Time
}

// Tables holds configurable table names for user storage.
type Tables struct {
	Users string `mapstructure:"users"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Users == "" {
		return errors.New("validate tables: users table name cannot be empty")
	}

	if !IsValidTableName(t.Users) {
		return fmt.Errorf("validate tables: invalid users table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Users)
	}

	return nil
}
