package redis

import (
	"context"
	"time"
)

// Client defines the Redis operations used by the matching engine.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	// Connect establishes the connection and verifies it with a ping.
	Connect(ctx context.Context) error
	// Disconnect closes the underlying connection.
	Disconnect(ctx context.Context) error
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Get returns the value stored at key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key with the given expiration (0 for no expiry).
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Del removes the given keys and returns the number deleted.
	Del(ctx context.Context, keys ...string) (int64, error)
}
