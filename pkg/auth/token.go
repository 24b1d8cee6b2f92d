package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/stargazer/pkg/errors"
)

const (
	// TokenType is the OAuth2 token type reported to clients.
	TokenType = "bearer"

	// DefaultTTL is the token lifetime when none is configured.
	DefaultTTL = 30 * time.Minute
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// signed with another key or algorithm, or missing a subject.
var ErrInvalidToken = errors.New(errors.ErrCodeUnauthorized, "invalid token")

// Token is the body returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Guard issues and verifies HMAC-signed access tokens.
type Guard struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewGuard creates a Guard. algorithm may be HS256, HS384 or HS512; any
// other value selects HS256. A ttl below one minute is raised to one minute.
func NewGuard(secret []byte, algorithm string, ttl time.Duration) *Guard {
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &Guard{secret: secret, method: SigningMethod(algorithm), ttl: ttl}
}

// SigningMethod maps a configured algorithm name to its HMAC signing method.
func SigningMethod(algorithm string) jwt.SigningMethod {
	switch algorithm {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// Algorithm returns the name of the signing algorithm in use.
func (g *Guard) Algorithm() string { return g.method.Alg() }

// TTL returns the lifetime of issued tokens.
func (g *Guard) TTL() time.Duration { return g.ttl }

// Issue signs a token for username that expires after the guard's TTL.
func (g *Guard) Issue(username string) (Token, error) {
	return g.issueAt(username, time.Now())
}

func (g *Guard) issueAt(username string, now time.Time) (Token, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}
	signed, err := jwt.NewWithClaims(g.method, claims).SignedString(g.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: TokenType}, nil
}

// Parse verifies tokenString and returns its subject. Tokens without an
// expiry are rejected.
func (g *Guard) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{g.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
