package snapshot

import (
	"context"

	"station-alert-srv/internal/model"
)

// Source yields station snapshots. Delivery is at-least-once: duplicates and
// out-of-order readings are possible. The channel closes when ctx is done.
type Source interface {
	// Subscribe streams snapshots for stationCodes, or for every station when
	// none are given.
	Subscribe(ctx context.Context, stationCodes ...string) (<-chan model.StationSnapshot, error)
}

// Publisher pushes snapshots to subscribers of a Source.
type Publisher interface {
	Publish(ctx context.Context, snapshots ...model.StationSnapshot) error
}
