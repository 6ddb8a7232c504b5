package redis

import (
	"fmt"

	"station-alert-srv/config"
	pkgRedis "station-alert-srv/pkg/redis"
)

// Connect builds a Redis client from the environment config.
func Connect(cfg config.RedisConfig) (*pkgRedis.Client, error) {
	client, err := pkgRedis.NewClient(pkgRedis.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Password:        cfg.Password,
		DB:              cfg.DB,
		UseTLS:          cfg.UseTLS,
		MaxRetries:      cfg.MaxRetries,
		MinIdleConns:    cfg.MinIdleConns,
		PoolSize:        cfg.PoolSize,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
