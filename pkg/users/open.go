package users

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultURL is used when no database URL is configured.
const DefaultURL = "file://" + DefaultFileDir

// Open returns the store described by rawURL. An empty URL selects
// [DefaultURL]. File stores must already exist (see [Init]).
func Open(ctx context.Context, rawURL string) (Store, error) {
	scheme, rest, err := splitURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "file":
		return NewFileStore(rest)
	case "memory":
		return NewMemoryStore(), nil
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, rawURL)
	case "redis", "rediss":
		return NewRedisStore(ctx, rawURL)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// Init prepares the store described by rawURL for first use and opens it.
// For file stores this creates the directory; other backends create their
// structures on connect.
func Init(ctx context.Context, rawURL string) (Store, error) {
	scheme, rest, err := splitURL(rawURL)
	if err != nil {
		return nil, err
	}
	if scheme == "file" {
		return InitFileStore(rest)
	}
	return Open(ctx, rawURL)
}

// splitURL returns the scheme and, for file URLs, the directory path.
// Both file://relative/dir and file:///abs/dir are accepted.
func splitURL(rawURL string) (scheme, path string, err error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme == "" {
		return "", "", fmt.Errorf("database url %q has no scheme", rawURL)
	}
	if u.Scheme == "file" {
		path = filepath.FromSlash(strings.TrimPrefix(rawURL, "file://"))
	}
	return u.Scheme, path, nil
}
