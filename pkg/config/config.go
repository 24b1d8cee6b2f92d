// Package config loads stargazer configuration.
//
// Values are resolved in order: built-in defaults, an optional TOML file,
// then environment variables. Numeric limits are normalised last: values
// that fail to parse keep their default and anything below the floor is
// raised to it, so a bad setting degrades instead of failing startup.
//
// Example file:
//
//	[github]
//	token = "ghp_..."
//	max_page_repo = 2
//	workers = 4
//
//	[auth]
//	secret_key = "change-me"
//	algorithm = "HS512"
//	token_expire_minutes = 60
//
//	[database]
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8000"
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stargazer/pkg/errors"
)

// EnvFile names the environment variable holding the config file path.
const EnvFile = "STARGAZER_CONFIG"

// Defaults.
const (
	DefaultGitHubURL          = "https://api.github.com"
	DefaultMaxPageRepo        = 1
	DefaultMaxPageStargazer   = 1
	DefaultWorkers            = 1
	DefaultGitHubTimeout      = 10 * time.Second
	DefaultAlgorithm          = "HS256"
	DefaultTokenExpireMinutes = 30.0
	DefaultDatabaseURL        = "file://database/users"
	DefaultServerAddr         = ":8000"
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultLogLevel           = "info"
)

// Config is the complete application configuration.
type Config struct {
	GitHub   GitHub   `toml:"github"`
	Auth     Auth     `toml:"auth"`
	Database Database `toml:"database"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// GitHub configures the upstream client and resolver limits.
type GitHub struct {
	Token            string   `toml:"token"`              // GITHUB_TOKEN
	APIURL           string   `toml:"api_url"`            // GITHUB_API_URL
	MaxPageRepo      int      `toml:"max_page_repo"`      // GITHUB_MAX_PAGE_REPO (floor 1)
	MaxPageStargazer int      `toml:"max_page_stargazer"` // GITHUB_MAX_PAGE_STARGAZERS (floor 1)
	Workers          int      `toml:"workers"`            // GITHUB_WORKERS (floor 1)
	Timeout          Duration `toml:"timeout"`            // GITHUB_TIMEOUT
}

// Auth configures token signing.
type Auth struct {
	SecretKey          string  `toml:"secret_key"`           // JWT_SECRET_KEY
	Algorithm          string  `toml:"algorithm"`            // JWT_ALGORITHM: HS256, HS384 or HS512
	TokenExpireMinutes float64 `toml:"token_expire_minutes"` // ACCESS_TOKEN_EXPIRE_MINUTES (floor 1)
}

// TokenTTL returns the access token lifetime.
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.TokenExpireMinutes * float64(time.Minute))
}

// Database selects the user store.
type Database struct {
	URL string `toml:"url"` // DATABASE_URL
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string   `toml:"addr"`             // SERVER_ADDR
	ShutdownTimeout Duration `toml:"shutdown_timeout"` // SHUTDOWN_TIMEOUT
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"` // LOG_LEVEL
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHub{
			APIURL:           DefaultGitHubURL,
			MaxPageRepo:      DefaultMaxPageRepo,
			MaxPageStargazer: DefaultMaxPageStargazer,
			Workers:          DefaultWorkers,
			Timeout:          Duration{DefaultGitHubTimeout},
		},
		Auth: Auth{
			Algorithm:          DefaultAlgorithm,
			TokenExpireMinutes: DefaultTokenExpireMinutes,
		},
		Database: Database{URL: DefaultDatabaseURL},
		Server: Server{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: Duration{DefaultShutdownTimeout},
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

// Load builds the configuration from defaults, the TOML file at path (or
// $STARGAZER_CONFIG when path is empty; no file is fine), and the process
// environment.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookup(EnvFile)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
		}
	}

	applyEnv(cfg, lookup)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				*dst = f
			}
		}
	}
	duration := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok {
			if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
				dst.Duration = d
			}
		}
	}

	str("GITHUB_TOKEN", &cfg.GitHub.Token)
	str("GITHUB_API_URL", &cfg.GitHub.APIURL)
	integer("GITHUB_MAX_PAGE_REPO", &cfg.GitHub.MaxPageRepo)
	integer("GITHUB_MAX_PAGE_STARGAZERS", &cfg.GitHub.MaxPageStargazer)
	integer("GITHUB_WORKERS", &cfg.GitHub.Workers)
	duration("GITHUB_TIMEOUT", &cfg.GitHub.Timeout)

	str("JWT_SECRET_KEY", &cfg.Auth.SecretKey)
	str("JWT_ALGORITHM", &cfg.Auth.Algorithm)
	float("ACCESS_TOKEN_EXPIRE_MINUTES", &cfg.Auth.TokenExpireMinutes)

	str("DATABASE_URL", &cfg.Database.URL)

	str("SERVER_ADDR", &cfg.Server.Addr)
	duration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	str("LOG_LEVEL", &cfg.Log.Level)
}

func (c *Config) normalize() {
	c.GitHub.MaxPageRepo = max(1, c.GitHub.MaxPageRepo)
	c.GitHub.MaxPageStargazer = max(1, c.GitHub.MaxPageStargazer)
	c.GitHub.Workers = max(1, c.GitHub.Workers)
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultGitHubURL
	}
	if c.GitHub.Timeout.Duration <= 0 {
		c.GitHub.Timeout.Duration = DefaultGitHubTimeout
	}

	switch c.Auth.Algorithm {
	case "HS384", "HS512":
	default:
		c.Auth.Algorithm = DefaultAlgorithm
	}
	c.Auth.TokenExpireMinutes = max(1, c.Auth.TokenExpireMinutes)

	if c.Database.URL == "" {
		c.Database.URL = DefaultDatabaseURL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		c.Server.ShutdownTimeout.Duration = DefaultShutdownTimeout
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks the settings required to serve the API.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "JWT_SECRET_KEY is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q", c.Log.Level)
	}
	return nil
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("github=%s pages=%d/%d workers=%d token=%s database=%s addr=%s jwt=%s/%.0fm",
		c.GitHub.APIURL, c.GitHub.MaxPageRepo, c.GitHub.MaxPageStargazer, c.GitHub.Workers,
		mask(c.GitHub.Token), MaskURL(c.Database.URL), c.Server.Addr,
		c.Auth.Algorithm, c.Auth.TokenExpireMinutes)
}

func mask(s string) string {
	if s == "" {
		return "unset"
	}
	return "set"
}

// MaskURL hides the userinfo of a database URL.
func MaskURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return raw
}
