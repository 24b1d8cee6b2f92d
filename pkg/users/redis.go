package users

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "stargazer:"

// RedisStore keeps each user in a hash at stargazer:user:<username>.
// Uniqueness is enforced by stargazer:username:<username> and
// stargazer:email:<email> reservation keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server described by url
// (redis://[user:pass@]host:port/db) and verifies the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	s := &RedisStore{client: redis.NewClient(opts)}
	if err := s.Ping(ctx); err != nil {
		s.client.Close()
		return nil, err
	}
	return s, nil
}

func userKey(username string) string { return redisKeyPrefix + "user:" + username }
func nameKey(username string) string { return redisKeyPrefix + "username:" + username }
func emailKey(email string) string   { return redisKeyPrefix + "email:" + email }

func (s *RedisStore) Get(ctx context.Context, username string) (*User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(username)).Result()
	if err != nil {
		return nil, unavailable("get user", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	disabled, _ := strconv.ParseBool(fields["disabled"])
	return &User{
		ID:             fields["id"],
		Username:       fields["username"],
		Email:          fields["email"],
		Disabled:       disabled,
		HashedPassword: fields["hashed_password"],
	}, nil
}

// Create reserves the email and username with SETNX, then writes the whole
// user hash in one MULTI/EXEC so readers never see a partial user.
func (s *RedisStore) Create(ctx context.Context, u *User) error {
	ensureID(u)

	ok, err := s.client.SetNX(ctx, emailKey(u.Email), u.Username, 0).Result()
	if err != nil {
		return unavailable("reserve email", err)
	}
	if !ok {
		return ErrExists
	}

	ok, err = s.client.SetNX(ctx, nameKey(u.Username), u.ID, 0).Result()
	if err != nil || !ok {
		s.client.Del(ctx, emailKey(u.Email))
		if err != nil {
			return unavailable("reserve username", err)
		}
		return ErrExists
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKey(u.Username),
			"id", u.ID,
			"username", u.Username,
			"email", u.Email,
			"disabled", strconv.FormatBool(u.Disabled),
			"hashed_password", u.HashedPassword,
		)
		return nil
	})
	if err != nil {
		s.client.Del(ctx, userKey(u.Username), nameKey(u.Username), emailKey(u.Email))
		return unavailable("write user", err)
	}
	return nil
}

func (s *RedisStore) SetDisabled(ctx context.Context, username string, disabled bool) error {
	n, err := s.client.Exists(ctx, userKey(username)).Result()
	if err != nil {
		return unavailable("check user", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := s.client.HSet(ctx, userKey(username), "disabled", strconv.FormatBool(disabled)).Err(); err != nil {
		return unavailable("update user", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping redis", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
