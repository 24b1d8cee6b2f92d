package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultFileDir is the directory used when DATABASE_URL is not set.
const DefaultFileDir = "database/users"

// FileStore keeps one JSON file per user in a directory.
// It is meant for single-instance deployments and local development.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore opens a file store rooted at baseDir. The directory must
// already exist; use [InitFileStore] to create it.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = DefaultFileDir
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, baseDir)
		}
		return nil, unavailable("stat user dir", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDatabaseNotFound, baseDir)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// InitFileStore creates baseDir if needed and opens a store on it.
func InitFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = DefaultFileDir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create user dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) userPath(username string) string {
	return filepath.Join(s.baseDir, username+".json")
}

func (s *FileStore) Get(ctx context.Context, username string) (*User, error) {
	if !safeName(username) {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(username)
}

func (s *FileStore) read(username string) (*User, error) {
	data, err := os.ReadFile(s.userPath(username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, unavailable("read user file", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, unavailable("parse user", err)
	}
	return &u, nil
}

func (s *FileStore) Create(ctx context.Context, u *User) error {
	if !safeName(u.Username) {
		return fmt.Errorf("invalid username %q", u.Username)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.all()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Username == u.Username || e.Email == u.Email {
			return ErrExists
		}
	}

	ensureID(u)
	return s.write(u, os.O_CREATE|os.O_EXCL|os.O_WRONLY)
}

func (s *FileStore) SetDisabled(ctx context.Context, username string, disabled bool) error {
	if !safeName(username) {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.read(username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	u.Disabled = disabled
	return s.write(u, os.O_TRUNC|os.O_WRONLY)
}

func (s *FileStore) write(u *User, flag int) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	f, err := os.OpenFile(s.userPath(u.Username), flag, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrExists
		}
		return unavailable("open user file", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return unavailable("write user file", err)
	}
	if err := f.Close(); err != nil {
		return unavailable("close user file", err)
	}
	return nil
}

// all reads every user file. The caller holds the lock.
func (s *FileStore) all() ([]User, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, unavailable("read user dir", err)
	}

	var out []User
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		u, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.baseDir); err != nil {
		return unavailable("stat user dir", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for user files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// safeName rejects names that would escape the store directory.
func safeName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

var _ Store = (*FileStore)(nil)
