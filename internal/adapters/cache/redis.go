// Package cache adapts Redis as the short-lived store for verification
// codes and password reset tokens.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
)

const (
	verificationCodePrefix = "verification_code:"
	resetTokenPrefix       = "password_reset_token:"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// CodeCache implements the clients.CodeCache port on top of Redis.
// Keys follow the conventions verification_code:<email> and
// password_reset_token:<email>; both are delete-on-consume.
type CodeCache struct {
	rdb *redis.Client
}

func NewCodeCache(rdb *redis.Client) *CodeCache {
	return &CodeCache{rdb: rdb}
}

var _ clients.CodeCache = (*CodeCache)(nil)

func (c *CodeCache) SetVerificationCode(ctx context.Context, email string, code string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, verificationCodePrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (c *CodeCache) GetVerificationCode(ctx context.Context, email string) (string, error) {
	return c.get(ctx, verificationCodePrefix+email)
}

func (c *CodeCache) DeleteVerificationCode(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, verificationCodePrefix+email).Err()
}

func (c *CodeCache) GetResetToken(ctx context.Context, email string) (string, error) {
	return c.get(ctx, resetTokenPrefix+email)
}

func (c *CodeCache) DeleteResetToken(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, resetTokenPrefix+email).Err()
}

func (c *CodeCache) get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return val, nil
}
