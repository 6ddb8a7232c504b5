package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"station-alert-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationRecord(code string, docks int) record {
	return record{
		StationCode:       code,
		Name:              "Station " + code,
		Capacity:          20,
		NumDocksAvailable: docks,
		NumBikesAvailable: 20 - docks,
		Mechanical:        10 - docks/2,
		EBike:             10 - docks/2,
		DueDate:           "2024-05-01T08:00:00+02:00",
		Coordinates:       &coords{Lat: 48.86, Lon: 2.35},
	}
}

func newDatasetServer(t *testing.T, all []record, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := min(offset+limit, len(all))
		var results []record
		if offset < len(all) {
			results = all[offset:end]
		}
		_ = json.NewEncoder(w).Encode(page{TotalCount: len(all), Results: results})
	}))
}

func TestFetchAllPaginates(t *testing.T) {
	var all []record
	for i := 0; i < 5; i++ {
		all = append(all, stationRecord(fmt.Sprintf("1610%d", i), i))
	}
	all = append(all, record{StationCode: "", Coordinates: &coords{Lat: 1, Lon: 1}})
	all = append(all, record{StationCode: "9999"})

	var calls int32
	srv := newDatasetServer(t, all, &calls)
	defer srv.Close()

	c := NewClient(log.NewNop(), ClientOptions{BaseURL: srv.URL, PageSize: 2})
	readings, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, readings, 5)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	first := readings[0]
	assert.Equal(t, "16100", first.Station.Code)
	assert.Equal(t, 0, first.Snapshot.DocksAvailable)
	assert.Equal(t, time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC), first.Snapshot.Timestamp)
}

func TestFetchAllServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(log.NewNop(), ClientOptions{BaseURL: srv.URL})
	readings, err := c.FetchAll(context.Background())
	assert.Error(t, err)
	assert.Empty(t, readings)
}

func TestRecordReading(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	r := stationRecord("16107", 4)
	r.Name = ""
	r.DueDate = "garbage"
	got := r.reading(now)

	assert.Equal(t, defaultStationName, got.Station.Name)
	assert.Equal(t, now, got.Snapshot.Timestamp)
	assert.Equal(t, 4, got.Snapshot.DocksAvailable)
	assert.Equal(t, 16, got.Snapshot.BikesAvailable)
}
