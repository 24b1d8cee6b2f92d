package errors

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// usernameRegex matches account names accepted by the user store.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// ValidateUsername validates an API account name before it is stored.
//
// Usernames become file names (file store) and key names (Redis store):
//   - No empty names
//   - Maximum length of 64 characters
//   - Alphanumerics plus '.', '_' and '-', not starting with a symbol
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidUsername, "username too long (max 64 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidUsername, "username contains invalid characters: %q", "..")
	}
	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "invalid username: %q", name)
	}
	return nil
}

// ValidateEmail validates an email address (RFC 5322 address only, no display name).
func ValidateEmail(email string) error {
	if email == "" {
		return New(ErrCodeInvalidEmail, "email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return New(ErrCodeInvalidEmail, "invalid email: %q", email)
	}
	return nil
}

// ValidatePassword validates a plain-text password before hashing.
// bcrypt silently ignores input beyond 72 bytes, so longer passwords are rejected.
func ValidatePassword(password string) error {
	if password == "" {
		return New(ErrCodeInvalidPassword, "password cannot be empty")
	}
	if len(password) > 72 {
		return New(ErrCodeInvalidPassword, "password too long (max 72 bytes)")
	}
	for _, r := range password {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPassword, "password contains invalid control characters")
		}
	}
	return nil
}
