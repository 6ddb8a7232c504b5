package redis

import (
	"time"

	"station-alert-srv/internal/snapshot"
	"station-alert-srv/pkg/log"

	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultBufferSize     = 256
	defaultMaxBackoff     = 30 * time.Second
	defaultInitialBackoff = 500 * time.Millisecond
)

type Options struct {
	// BufferSize is the capacity of the channel returned by Subscribe.
	BufferSize     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type source struct {
	l      log.Logger
	client goredis.UniversalClient
	opts   Options
}

// NewSource returns a Source reading the station_snapshot:{code} channels.
func NewSource(l log.Logger, client goredis.UniversalClient, opts Options) snapshot.Source {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	return &source{l: l, client: client, opts: opts}
}

type publisher struct {
	l      log.Logger
	client goredis.UniversalClient
}

func NewPublisher(l log.Logger, client goredis.UniversalClient) snapshot.Publisher {
	return &publisher{l: l, client: client}
}
