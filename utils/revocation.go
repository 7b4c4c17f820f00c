package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenRevoker tracks tokens invalidated by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisTokenRevoker stores the SHA-256 of each logged-out token until it would have expired anyway.
type RedisTokenRevoker struct {
	client *redis.Client
}

func NewRedisTokenRevoker(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, RevokedTokenPrefix+HashToken(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, RevokedTokenPrefix+HashToken(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}

// RevokeToken blocks token until it expires. Tokens that no longer parse are ignored.
func RevokeToken(ctx context.Context, revoker TokenRevoker, token string) error {
	if token == "" || revoker == nil {
		return nil
	}
	claims, err := ParseToken(token)
	if err != nil {
		return nil
	}
	return revoker.Revoke(ctx, token, time.Until(claims.ExpiresAt))
}
