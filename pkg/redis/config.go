package redis

import "time"

// Mode represents the Redis deployment mode.
type Mode string

const (
	// Standalone is a single-node Redis deployment.
	Standalone Mode = "standalone"
	// Cluster is a Redis cluster deployment.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	Mode     Mode

	ConnectTimeout  time.Duration
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PoolTimeout     time.Duration

	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a local standalone node.
func DefaultConfig() *Config {
	return &Config{
		Addrs:           []string{"localhost:6379"},
		Mode:            Standalone,
		ConnectTimeout:  5 * time.Second,
		PoolSize:        10,
		MinIdleConns:    1,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		PoolTimeout:     5 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
	}
}
