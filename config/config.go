package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	Engine   EngineConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	MinIO    MinIOConfig
	OpenData OpenDataConfig

	Discord DiscordConfig
}

// HTTPServerConfig is the configuration for the internal HTTP surface.
type HTTPServerConfig struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"HTTP_PORT" envDefault:"8080"`
	Mode string `env:"HTTP_MODE" envDefault:"release"`
}

type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// EngineConfig tunes the dispatch engine.
type EngineConfig struct {
	// Stations restricts the subscription. Empty means every station.
	Stations          []string      `env:"ENGINE_STATIONS" envSeparator:","`
	QueueSize         int           `env:"ENGINE_QUEUE_SIZE" envDefault:"64"`
	AlertCacheSize    int           `env:"ENGINE_ALERT_CACHE_SIZE" envDefault:"4096"`
	AlertCacheTTL     time.Duration `env:"ENGINE_ALERT_CACHE_TTL" envDefault:"5m"`
	StationNameTTL    time.Duration `env:"ENGINE_STATION_NAME_TTL" envDefault:"1h"`
	ShutdownTimeout   time.Duration `env:"ENGINE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	SendTimeout       time.Duration `env:"ENGINE_SEND_TIMEOUT" envDefault:"30s"`
	StoreTimeout      time.Duration `env:"ENGINE_STORE_TIMEOUT" envDefault:"10s"`
	RetentionInterval time.Duration `env:"ENGINE_RETENTION_INTERVAL" envDefault:"24h"`
	RetentionPeriod   time.Duration `env:"ENGINE_RETENTION_PERIOD" envDefault:"720h"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" envDefault:"velib"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	// Migrate applies the embedded schema on startup.
	Migrate bool `env:"POSTGRES_MIGRATE" envDefault:"true"`
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// RedisConfig is the configuration for Redis.
// Only standalone mode is supported.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	UseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`

	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	PoolTimeout     time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type SMTPConfig struct {
	Host               string        `env:"SMTP_HOST"`
	Port               int           `env:"SMTP_PORT" envDefault:"587"`
	Username           string        `env:"SMTP_USERNAME"`
	Password           string        `env:"SMTP_PASSWORD"`
	From               string        `env:"SMTP_FROM"`
	FromName           string        `env:"SMTP_FROM_NAME" envDefault:"Vélib' Alerts"`
	Security           string        `env:"SMTP_SECURITY" envDefault:"starttls"`
	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
	// MaxAttempts and RetryDelay bound the linear retry around each send.
	MaxAttempts int           `env:"SMTP_MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"SMTP_RETRY_DELAY" envDefault:"2s"`
}

// MinIOConfig configures the history archive. Leave the endpoint empty to
// purge without archiving.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Region    string `env:"MINIO_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"notification-history"`
}

func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

type OpenDataConfig struct {
	BaseURL  string        `env:"OPENDATA_BASE_URL" envDefault:"https://opendata.paris.fr/api/explore/v2.1/catalog/datasets/velib-disponibilite-en-temps-reel/records"`
	PageSize int           `env:"OPENDATA_PAGE_SIZE" envDefault:"100"`
	Interval time.Duration `env:"OPENDATA_INTERVAL" envDefault:"60s"`
	// PagesPerSecond paces page requests within one sync.
	PagesPerSecond float64       `env:"OPENDATA_PAGES_PER_SECOND" envDefault:"10"`
	Timeout        time.Duration `env:"OPENDATA_TIMEOUT" envDefault:"20s"`
}

// DiscordConfig is the operator webhook. Empty disables reports.
type DiscordConfig struct {
	WebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	errQueueSize  = errors.New("config: ENGINE_QUEUE_SIZE must be positive")
	errCacheSize  = errors.New("config: ENGINE_ALERT_CACHE_SIZE must be positive")
	errPageSize   = errors.New("config: OPENDATA_PAGE_SIZE must be between 1 and 100")
	errMinIOCreds = errors.New("config: MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	errSMTPFrom   = errors.New("config: SMTP_FROM is required when SMTP_HOST is set")
)

func (c *Config) validate() error {
	switch {
	case c.Engine.QueueSize <= 0:
		return errQueueSize
	case c.Engine.AlertCacheSize <= 0:
		return errCacheSize
	case c.OpenData.PageSize <= 0 || c.OpenData.PageSize > 100:
		return errPageSize
	case c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == ""):
		return errMinIOCreds
	case c.SMTP.Host != "" && c.SMTP.From == "":
		return errSMTPFrom
	}
	return nil
}
