package userbackend

import "github.com/sagarc03/privmedia"

// UserEntry is a user as written in configuration or a users file. Active
// defaults to true when omitted.
type UserEntry struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name" mapstructure:"name"`
	Active    *bool  `json:"active" mapstructure:"active"`
	Staff     bool   `json:"staff" mapstructure:"staff"`
	Superuser bool   `json:"superuser" mapstructure:"superuser"`
}

// User converts e to a privmedia.User.
func (e UserEntry) User() privmedia.User {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return privmedia.User{
		ID:        e.ID,
		Name:      e.Name,
		Active:    active,
		Staff:     e.Staff,
		Superuser: e.Superuser,
	}
}
