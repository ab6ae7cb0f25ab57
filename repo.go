package privmedia

import "context"

// UserStore looks up the current role flags of a user.
type UserStore interface {
	// Get returns the user with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (User, error)
}

// UserRepo manages persisted users.
//
// All methods accept a context for cancellation and timeout control.
// Implementations must be safe for concurrent use.
type UserRepo interface {
	UserStore

	// Upsert creates or updates a user by ID.
	//
	// Returns:
	//   - User: the stored user with timestamps set
	//   - bool: true if a new user was created, false if an existing one was updated
	//   - error: ErrInvalidInput for an empty ID, or other database errors
	Upsert(ctx context.Context, u User) (User, bool, error)

	// Delete removes a user by ID. Returns ErrNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]User, error)
}
