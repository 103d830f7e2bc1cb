package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IndraW01/API-Contact-Management/internal/auth"
)

// sessionPrefix is the Redis key prefix for token -> username entries.
// Tokens are hashed so raw session tokens never reach Redis.
const sessionPrefix = "session:"

func sessionKey(token string) string {
	return sessionPrefix + auth.QuickHash(token)
}

// GetSession returns the username cached for token. ok is false on a miss.
func (c *Cache) GetSession(ctx context.Context, token string) (username string, ok bool, err error) {
	username, err = c.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session: %w", err)
	}
	return username, username != "", nil
}

// SetSession caches the owner of token for the configured TTL.
func (c *Cache) SetSession(ctx context.Context, token, username string) error {
	if err := c.client.Set(ctx, sessionKey(token), username, c.sessionTTL).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// DeleteSession drops a cached token. Called on logout and when a new login
// replaces the token.
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
