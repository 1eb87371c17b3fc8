package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// AuthConfig holds all settings for the auth service binary.
type AuthConfig struct {
	Port      string        `env:"AUTH_PORT,  default=8000"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=15m"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Stream StreamConfig
}

// TrackerConfig holds all settings for the task tracker binary.
type TrackerConfig struct {
	Port     string `env:"TRACKER_PORT, default=8001"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`

	// AuthBaseURL is where the synchronous token check is sent.
	AuthBaseURL string        `env:"AUTH_BASE_URL,      default=http://localhost:8000"`
	AuthTimeout time.Duration `env:"AUTH_CHECK_TIMEOUT, default=3s"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Stream StreamConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=taskforge"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// StreamConfig names the account event channel and the tracker's consumer
// group on it.
type StreamConfig struct {
	AccountStream string `env:"ACCOUNT_STREAM,  default=account"`
	ConsumerGroup string `env:"CONSUMER_GROUP,  default=task_tracker"`
	ConsumerName  string `env:"CONSUMER_NAME,   default=task_tracker_1"`
}

// LoadAuth reads the auth service configuration from environment variables.
func LoadAuth() *AuthConfig {
	var cfg AuthConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load auth configuration: %v", err))
	}
	return &cfg
}

// LoadTracker reads the task tracker configuration from environment variables.
func LoadTracker() *TrackerConfig {
	var cfg TrackerConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load tracker configuration: %v", err))
	}
	return &cfg
}
