package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds the connection and pool settings of a Redis client.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Client wraps goredis.Client with health helpers.
type Client struct {
	*goredis.Client
	config Config
}
