package auth

import (
	"context"

	"github.com/matzehuels/stargazer/pkg/errors"
	"github.com/matzehuels/stargazer/pkg/users"
)

// ErrBadCredentials is returned when the username is unknown or the
// password does not match.
var ErrBadCredentials = errors.New(errors.ErrCodeUnauthorized, "incorrect username or password")

// Authenticate looks up username and checks password against its hash.
// Store failures are returned as-is so callers can tell them apart from
// bad credentials.
func Authenticate(ctx context.Context, store users.Store, username, password string) (*users.User, error) {
	u, err := store.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !VerifyPassword(password, u.HashedPassword) {
		return nil, ErrBadCredentials
	}
	return u, nil
}
