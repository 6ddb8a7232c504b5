package usecase

import (
	"time"

	"station-alert-srv/internal/model"
)

// window is the minimum gap between two deliveries of an alert.
func window(freq model.Frequency) time.Duration {
	switch freq {
	case model.FrequencyHourly:
		return time.Hour
	case model.FrequencyDaily:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Allow reports whether a crossing may be delivered at now. Unknown
// frequencies behave as immediate.
func Allow(freq model.Frequency, lastSent *time.Time, now time.Time) bool {
	w := window(freq)
	if w == 0 || lastSent == nil {
		return true
	}
	return now.Sub(*lastSent) >= w
}

// NextAllowed is the earliest time Allow turns true. The zero time means
// now.
func NextAllowed(freq model.Frequency, lastSent *time.Time) time.Time {
	w := window(freq)
	if w == 0 || lastSent == nil {
		return time.Time{}
	}
	return lastSent.Add(w)
}
