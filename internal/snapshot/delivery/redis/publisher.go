package redis

import (
	"context"
	"fmt"

	"station-alert-srv/internal/model"
)

// Publish sends each snapshot on its station channel in one pipeline.
func (p *publisher) Publish(ctx context.Context, snapshots ...model.StationSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, s := range snapshots {
		payload, err := encode(s)
		if err != nil {
			p.l.Warnf(ctx, "internal.snapshot.delivery.redis.Publish.encode: %v", err)
			continue
		}
		pipe.Publish(ctx, channelFor(s.StationCode), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %d snapshots: %w", len(snapshots), err)
	}
	return nil
}
