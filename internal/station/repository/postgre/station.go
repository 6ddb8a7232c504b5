package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"station-alert-srv/internal/model"
	"station-alert-srv/internal/station/repository"
	"station-alert-srv/internal/sqlboiler"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

const (
	queryStationByCode = `SELECT station_code, name, capacity, lat, lon, updated_at
		FROM velib_stations WHERE station_code = $1`

	upsertColumns = 6
	// upsertBatchSize keeps placeholders below the 65535 protocol limit.
	upsertBatchSize = 500
)

func (r *implRepository) Name(ctx context.Context, code string) (string, error) {
	var row sqlboiler.VelibStation
	if err := queries.Raw(queryStationByCode, code).Bind(ctx, r.db, &row); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return "", repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.station.repository.postgres.Name.Bind: %v", err)
		return "", errors.Wrap(err, "station name")
	}
	return model.NewStationFromDB(&row).Name, nil
}

func (r *implRepository) UpsertStations(ctx context.Context, stations []model.Station) error {
	for start := 0; start < len(stations); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(stations))
		q, args := buildUpsertQuery(stations[start:end])
		if _, err := queries.Raw(q, args...).ExecContext(ctx, r.db); err != nil {
			r.l.Errorf(ctx, "internal.station.repository.postgres.UpsertStations.Exec: %v", err)
			return errors.Wrapf(err, "upsert stations [%d:%d]", start, end)
		}
	}
	return nil
}

func buildUpsertQuery(stations []model.Station) (string, []any) {
	values := make([]string, 0, len(stations))
	args := make([]any, 0, len(stations)*upsertColumns)
	for i, s := range stations {
		n := i * upsertColumns
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args, s.Code, s.Name, s.Capacity, s.Lat, s.Lon, s.UpdatedAt)
	}
	q := `INSERT INTO velib_stations (station_code, name, capacity, lat, lon, updated_at) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (station_code) DO UPDATE SET name = EXCLUDED.name, capacity = EXCLUDED.capacity,
		lat = EXCLUDED.lat, lon = EXCLUDED.lon, updated_at = EXCLUDED.updated_at`
	return q, args
}
