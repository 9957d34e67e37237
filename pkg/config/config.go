package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is fine, env vars may be set directly

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine process.
type Config struct {
	Symbol       string `env:"SYMBOL,required"` // Instrument symbol, e.g. AAPL
	LotSize      int32  `env:"LOT_SIZE" envDefault:"100"`
	TickRuleFile string `env:"TICK_RULE_FILE" envDefault:"ticks.json"`

	EngineConfig     `envPrefix:"ENGINE_"`
	KafkaConfig      `envPrefix:"KAFKA_"`
	MarketDataConfig `envPrefix:"MARKET_DATA_"`
	RedisConfig      `envPrefix:"REDIS_"`
}

// EngineConfig holds the order book sizing parameters, fixed at construction.
type EngineConfig struct {
	// MaxOrders is the arena capacity: the highest order id the book accepts.
	MaxOrders uint64 `env:"MAX_ORDERS" envDefault:"10010000"`
	// MaxPrice bounds the instrument's legal price range (scaled, 4 implied decimals).
	MaxPrice int64 `env:"MAX_PRICE" envDefault:"10000000"`
	// PriceWindow is the directly indexed slice of the price range; prices above it
	// fall back to a sparse level map.
	PriceWindow int64 `env:"PRICE_WINDOW" envDefault:"2000000"`
}

// KafkaConfig holds the configuration for the order stream consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// MarketDataConfig holds the configuration for the market data publisher.
type MarketDataConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
