package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"station-alert-srv/internal/model"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
)

func (s *source) Subscribe(ctx context.Context, stationCodes ...string) (<-chan model.StationSnapshot, error) {
	ps, err := s.open(ctx, stationCodes)
	if err != nil {
		return nil, err
	}

	out := make(chan model.StationSnapshot, s.opts.BufferSize)
	go s.listen(ctx, ps, stationCodes, out)

	if len(stationCodes) == 0 {
		s.l.Infof(ctx, "internal.snapshot.delivery.redis.Subscribe: subscribed to %s", channelPattern)
	} else {
		s.l.Infof(ctx, "internal.snapshot.delivery.redis.Subscribe: subscribed to %d stations", len(stationCodes))
	}
	return out, nil
}

// open subscribes and waits for the server confirmation.
func (s *source) open(ctx context.Context, stationCodes []string) (*goredis.PubSub, error) {
	var ps *goredis.PubSub
	if len(stationCodes) == 0 {
		ps = s.client.PSubscribe(ctx, channelPattern)
	} else {
		channels := make([]string, len(stationCodes))
		for i, code := range stationCodes {
			channels[i] = channelFor(code)
		}
		ps = s.client.Subscribe(ctx, channels...)
	}

	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return ps, nil
}

// listen forwards messages to out until ctx is done. Receive errors trigger
// a resubscribe with exponential backoff; out stays open meanwhile.
func (s *source) listen(ctx context.Context, ps *goredis.PubSub, stationCodes []string, out chan<- model.StationSnapshot) {
	defer close(out)
	defer func() {
		if ps != nil {
			_ = ps.Close()
		}
	}()

	for {
		msg, err := ps.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.l.Warnf(ctx, "internal.snapshot.delivery.redis.listen.ReceiveMessage: %v", err)
			_ = ps.Close()
			ps = nil

			ps, err = s.resubscribe(ctx, stationCodes)
			if err != nil {
				return
			}
			continue
		}

		snap, err := decode(msg.Channel, msg.Payload)
		if err != nil {
			s.l.Warnf(ctx, "internal.snapshot.delivery.redis.listen.decode: channel=%s: %v", msg.Channel, err)
			continue
		}

		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

func (s *source) resubscribe(ctx context.Context, stationCodes []string) (*goredis.PubSub, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.InitialBackoff
	b.MaxInterval = s.opts.MaxBackoff
	b.MaxElapsedTime = 0

	var ps *goredis.PubSub
	op := func() error {
		var err error
		ps, err = s.open(ctx, stationCodes)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		s.l.Warnf(ctx, "internal.snapshot.delivery.redis.resubscribe: %v, retrying in %s", err, wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	s.l.Infof(ctx, "internal.snapshot.delivery.redis.resubscribe: subscription restored")
	return ps, nil
}
