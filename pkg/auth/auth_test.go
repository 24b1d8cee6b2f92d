package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/matzehuels/stargazer/pkg/errors"
	"github.com/matzehuels/stargazer/pkg/users"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("unexpected hash %q", hash)
	}
	if !VerifyPassword("secret", hash) {
		t.Error("password should verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("secret", "not-a-hash") {
		t.Error("malformed hash should not verify")
	}
}

func TestSigningMethod(t *testing.T) {
	tests := []struct{ in, want string }{
		{"HS256", "HS256"},
		{"HS384", "HS384"},
		{"HS512", "HS512"},
		{"", "HS256"},
		{"RS256", "HS256"},
		{"hs512", "HS256"},
	}
	for _, tt := range tests {
		if got := SigningMethod(tt.in).Alg(); got != tt.want {
			t.Errorf("SigningMethod(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGuard_IssueParse(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			g := NewGuard([]byte("key"), alg, time.Hour)

			tok, err := g.Issue("jd")
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if tok.TokenType != "bearer" {
				t.Errorf("token type = %q", tok.TokenType)
			}

			sub, err := g.Parse(tok.AccessToken)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if sub != "jd" {
				t.Errorf("subject = %q, want jd", sub)
			}
		})
	}
}

func TestGuard_ParseRejects(t *testing.T) {
	g := NewGuard([]byte("key"), "HS256", time.Hour)

	expired, err := g.issueAt("jd", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issueAt: %v", err)
	}
	otherKey, _ := NewGuard([]byte("other"), "HS256", time.Hour).Issue("jd")
	otherAlg, _ := NewGuard([]byte("key"), "HS512", time.Hour).Issue("jd")
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("key"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "jd",
	}).SignedString([]byte("key"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired.AccessToken},
		{"other key", otherKey.AccessToken},
		{"other algorithm", otherAlg.AccessToken},
		{"no subject", noSubject},
		{"no expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewGuard_TTLFloor(t *testing.T) {
	if got := NewGuard([]byte("k"), "", 0).TTL(); got != time.Minute {
		t.Errorf("TTL = %v, want 1m", got)
	}
	if got := NewGuard([]byte("k"), "", 90*time.Minute).TTL(); got != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", got)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryStore()
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := store.Create(ctx, users.New("jd", "jd@stargazer.com", hash)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "jd", "pw", nil},
		{"wrong password", "jd", "nope", ErrBadCredentials},
		{"unknown user", "ghost", "pw", ErrBadCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Authenticate(ctx, store, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (u == nil || u.Username != tt.username) {
				t.Errorf("user = %+v", u)
			}
		})
	}
}

type failingStore struct{ users.Store }

func (failingStore) Get(context.Context, string) (*users.User, error) {
	return nil, users.ErrUnavailable
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	_, err := Authenticate(context.Background(), failingStore{}, "jd", "pw")
	if !errors.Is(err, users.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestErrorsCarryUnauthorizedCode(t *testing.T) {
	for _, err := range []error{ErrBadCredentials, ErrInvalidToken} {
		if !apperrors.Is(err, apperrors.ErrCodeUnauthorized) {
			t.Errorf("%v: want code %s", err, apperrors.ErrCodeUnauthorized)
		}
	}

	g := NewGuard([]byte("k"), "HS256", time.Hour)
	_, err := g.Parse("garbage")
	if !errors.Is(err, ErrInvalidToken) || !apperrors.Is(err, apperrors.ErrCodeUnauthorized) {
		t.Errorf("Parse(garbage) = %v", err)
	}
}
