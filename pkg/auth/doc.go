// Package auth guards the API with username/password login and bearer tokens.
//
// Passwords are stored as bcrypt hashes ([HashPassword], [VerifyPassword]).
// A successful login ([Authenticate]) is exchanged for a signed JWT
// ([Guard.Issue]) whose "sub" claim is the username and whose "exp" claim
// bounds its lifetime. Protected requests present that token, which
// [Guard.Parse] verifies before the user is looked up again.
//
//	guard := auth.NewGuard(secret, "HS256", 30*time.Minute)
//
//	u, err := auth.Authenticate(ctx, store, username, password)
//	if errors.Is(err, auth.ErrBadCredentials) {
//	    // 401
//	}
//	tok, err := guard.Issue(u.Username)
//
// Tokens are stateless: they cannot be revoked before expiry, but a
// disabled or deleted user is rejected at lookup time.
package auth
