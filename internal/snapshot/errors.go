package snapshot

import "errors"

var (
	ErrInvalidSnapshot = errors.New("invalid station snapshot")
	ErrNoStationCode   = errors.New("snapshot has no station code")
)
