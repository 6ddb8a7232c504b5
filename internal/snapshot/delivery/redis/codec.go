package redis

import (
	"encoding/json"
	"fmt"
	"strings"

	"station-alert-srv/internal/model"
	"station-alert-srv/internal/snapshot"
)

const (
	channelPrefix  = "station_snapshot:"
	channelPattern = channelPrefix + "*"
)

func channelFor(stationCode string) string {
	return channelPrefix + stationCode
}

func encode(s model.StationSnapshot) ([]byte, error) {
	if s.StationCode == "" {
		return nil, snapshot.ErrNoStationCode
	}
	return json.Marshal(s)
}

// decode parses a payload and checks it against the channel it arrived on.
func decode(channel, payload string) (model.StationSnapshot, error) {
	var s model.StationSnapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return model.StationSnapshot{}, fmt.Errorf("%w: %v", snapshot.ErrInvalidSnapshot, err)
	}
	if s.StationCode == "" {
		s.StationCode = strings.TrimPrefix(channel, channelPrefix)
	}
	if s.StationCode == "" {
		return model.StationSnapshot{}, snapshot.ErrNoStationCode
	}
	if channel != "" && channel != channelFor(s.StationCode) {
		return model.StationSnapshot{}, fmt.Errorf("%w: station %s on channel %s", snapshot.ErrInvalidSnapshot, s.StationCode, channel)
	}
	if s.Timestamp.IsZero() {
		return model.StationSnapshot{}, fmt.Errorf("%w: missing timestamp", snapshot.ErrInvalidSnapshot)
	}
	return s, nil
}
