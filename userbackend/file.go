package userbackend

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sagarc03/privmedia"
)

// LoadUsersFromFile loads users from a JSON file.
// The file should contain an array of users:
//
//	[
//	  {"id": "42", "name": "alice"},
//	  {"id": "7", "name": "bob", "staff": true},
//	  {"id": "13", "name": "mallory", "active": false}
//	]
//
// Entries without an ID are skipped. Returns a map of user ID to user.
func LoadUsersFromFile(path string) (map[string]privmedia.User, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var entries []UserEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	users := make(map[string]privmedia.User, len(entries))
	for _, e := range entries {
		if e.ID != "" {
			users[e.ID] = e.User()
		}
	}

	return users, nil
}
