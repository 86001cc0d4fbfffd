package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "workforce:session:"

// rotateScript updates a session hash only if it still exists, so that a
// concurrent DEL from Revoke cannot be undone by a refresh.
var rotateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'token_id', ARGV[1], 'expires_at', ARGV[2])
redis.call('PEXPIREAT', KEYS[1], ARGV[2])
return 1
`)

// RedisSessionStore keeps sessions as Redis hashes that expire with the
// session, so several API instances share one token registry.
type RedisSessionStore struct {
	client *redis.Client
}

// RedisConfig holds the connection settings of the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(ctx context.Context, cfg RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis session store: %w", err)
	}
	return NewRedisSessionStoreWithClient(client), nil
}

func NewRedisSessionStoreWithClient(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Create(ctx context.Context, session *Session) error {
	key := sessionKey(session.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", session.UserID,
			"token_id", session.TokenID,
			"expires_at", session.ExpiresAt.UnixMilli(),
		)
		pipe.PExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		TokenID:   fields["token_id"],
		ExpiresAt: time.UnixMilli(expiresAt),
	}, nil
}

func (s *RedisSessionStore) Rotate(ctx context.Context, id, tokenID string, expiresAt time.Time) error {
	updated, err := rotateScript.Run(ctx, s.client, []string{sessionKey(id)}, tokenID, expiresAt.UnixMilli()).Int()
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if updated == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ SessionStore = (*RedisSessionStore)(nil)
