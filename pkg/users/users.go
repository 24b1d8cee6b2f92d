// Package users stores the accounts allowed to call the API.
//
// # Backends
//
// A [Store] is opened from a URL with [Open]; the scheme selects the backend:
//   - file://<dir>: one JSON file per user (default file://database/users)
//   - memory://: in-process map for tests and local development
//   - mongodb://… or mongodb+srv://…: a "users" collection in MongoDB
//   - redis://… or rediss://…: one hash per user in Redis
//
// # Usage
//
//	store, err := users.Open(ctx, cfg.DatabaseURL)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	u, err := store.Get(ctx, "jd")
//	if err != nil {
//	    return err // wraps ErrUnavailable on backend failures
//	}
//	if u == nil {
//	    // no such user
//	}
//
// Usernames and emails are unique; [Store.Create] returns [ErrExists] when
// either is taken.
package users

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/stargazer/pkg/errors"
)

// Sentinel errors for user store operations.
var (
	// ErrNotFound is returned when updating a user that does not exist.
	ErrNotFound = stderrors.New("user not found")

	// ErrExists is returned when a username or email is already taken.
	ErrExists = stderrors.New("user already exists")

	// ErrUnavailable wraps backend I/O failures.
	ErrUnavailable = stderrors.New("database not available")

	// ErrDatabaseNotFound is returned by Open when a file store directory
	// has not been initialised.
	ErrDatabaseNotFound = stderrors.New("database not found")
)

// User is an API account.
type User struct {
	ID             string `json:"id" bson:"_id"`
	Username       string `json:"username" bson:"username"`
	Email          string `json:"email" bson:"email"`
	Disabled       bool   `json:"disabled" bson:"disabled"`
	HashedPassword string `json:"hashed_password" bson:"hashed_password"`
}

// New creates an enabled user with a fresh ID.
func New(username, email, hashedPassword string) *User {
	return &User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
	}
}

// Active reports whether the user may call protected endpoints.
func (u *User) Active() bool { return !u.Disabled }

// Store persists users.
type Store interface {
	// Get returns the user with the given username, or nil, nil if there
	// is none.
	Get(ctx context.Context, username string) (*User, error)

	// Create inserts a new user. It returns ErrExists if the username or
	// email is already taken. An empty ID is filled in.
	Create(ctx context.Context, u *User) error

	// SetDisabled enables or disables a user. It returns ErrNotFound if the
	// user does not exist.
	SetDisabled(ctx context.Context, username string, disabled bool) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// unavailable reports a backend failure with the UNAVAILABLE code. The
// result matches both ErrUnavailable and the backend error.
func unavailable(op string, err error) error {
	return errors.Wrap(errors.ErrCodeUnavailable, fmt.Errorf("%w: %w", ErrUnavailable, err), "%s", op)
}

func ensureID(u *User) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}
