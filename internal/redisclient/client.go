package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// UserInfoKey is the key-value slot holding a visitor's registration
const UserInfoKey = "catalogueUserInfo"

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("redis: key not found")

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks connectivity
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection, used by the readiness probe
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// SaveSession stores the serialized navigation state of a session
func (c *Client) SaveSession(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, sessionKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// LoadSession reads the serialized navigation state of a session
func (c *Client) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return data, nil
}

// DeleteSession removes a session and its registration slot
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionKey(sessionID), userInfoKey(sessionID)).Err()
}

func userInfoKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", UserInfoKey, sessionID)
}

// SetUserInfo writes the registration slot of a session
func (c *Client) SetUserInfo(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, userInfoKey(sessionID), data, ttl).Err()
}

// releaseLockScript deletes the lock only while it still holds the
// caller's token, so an expired holder cannot drop a newer lock
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var releaseScript = redis.NewScript(releaseLockScript)

func lockKeyFor(lockKey string) string {
	return fmt.Sprintf("lock:%s", lockKey)
}

// AcquireLock takes a distributed lock holding token
func (c *Client) AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKeyFor(lockKey), token, ttl).Result()
}

// ReleaseLock releases the lock if it is still held with token
func (c *Client) ReleaseLock(ctx context.Context, lockKey, token string) error {
	return releaseScript.Run(ctx, c.rdb, []string{lockKeyFor(lockKey)}, token).Err()
}
