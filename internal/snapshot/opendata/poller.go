package opendata

import (
	"context"
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/internal/snapshot"
	stationRepo "station-alert-srv/internal/station/repository"
	"station-alert-srv/pkg/log"
)

// Fetcher is satisfied by *Client.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]StationReading, error)
}

// Poller periodically syncs station metadata and publishes snapshots.
type Poller struct {
	l         log.Logger
	fetcher   Fetcher
	stations  stationRepo.Repository
	publisher snapshot.Publisher
	interval  time.Duration
}

func NewPoller(l log.Logger, fetcher Fetcher, stations stationRepo.Repository, publisher snapshot.Publisher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{l: l, fetcher: fetcher, stations: stations, publisher: publisher, interval: interval}
}

// Run syncs immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			p.l.Errorf(ctx, "internal.snapshot.opendata.Run.SyncOnce: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// SyncOnce runs one fetch/upsert/publish cycle and returns the number of
// snapshots published. A partial fetch is still processed.
func (p *Poller) SyncOnce(ctx context.Context) (int, error) {
	start := time.Now()
	readings, fetchErr := p.fetcher.FetchAll(ctx)
	if fetchErr != nil {
		p.l.Warnf(ctx, "internal.snapshot.opendata.SyncOnce.FetchAll: %v", fetchErr)
	}
	if len(readings) == 0 {
		return 0, fetchErr
	}

	stations := make([]model.Station, len(readings))
	snaps := make([]model.StationSnapshot, len(readings))
	for i, r := range readings {
		stations[i] = r.Station
		snaps[i] = r.Snapshot
	}

	if err := p.stations.UpsertStations(ctx, stations); err != nil {
		p.l.Errorf(ctx, "internal.snapshot.opendata.SyncOnce.UpsertStations: %v", err)
	}

	if err := p.publisher.Publish(ctx, snaps...); err != nil {
		return 0, err
	}

	p.l.Infof(ctx, "internal.snapshot.opendata.SyncOnce: published %d snapshots in %s", len(snaps), time.Since(start).Round(time.Millisecond))
	return len(snaps), fetchErr
}
