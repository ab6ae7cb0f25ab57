// Package userbackend provides static privmedia.UserStore implementations
// for deployments that keep their users in configuration.
package userbackend

import (
	"context"
	"fmt"
	"sort"

	"github.com/sagarc03/privmedia"
)

// MapUserStore retrieves users from an in-memory map.
type MapUserStore struct {
	users map[string]privmedia.User
}

// NewMapUserStore creates a new map-based user store keyed by user ID.
func NewMapUserStore(users map[string]privmedia.User) *MapUserStore {
	return &MapUserStore{users: users}
}

// Get retrieves the user with the given ID from the map.
func (s *MapUserStore) Get(_ context.Context, id string) (privmedia.User, error) {
	u, found := s.users[id]
	if !found {
		return privmedia.User{}, fmt.Errorf("user %q: %w", id, privmedia.ErrNotFound)
	}
	return u, nil
}

// Len returns the number of users in the store.
func (s *MapUserStore) Len() int {
	return len(s.users)
}

// List returns all users ordered by ID.
func (s *MapUserStore) List(_ context.Context) ([]privmedia.User, error) {
	users := make([]privmedia.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
