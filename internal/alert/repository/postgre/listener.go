package postgres

import (
	"context"
	"encoding/json"
	"time"

	"station-alert-srv/internal/alert/repository"

	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

// OnAlertChanged listens on the alert_changed channel fed by the
// user_alerts trigger. A reconnect yields a ChangeReset since notifications
// may have been missed.
func (r *implRepository) OnAlertChanged(ctx context.Context, fn func(repository.AlertChange)) error {
	listener := pq.NewListener(r.dsn, listenerMinReconnect, listenerMaxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.l.Warnf(ctx, "internal.alert.repository.postgres.OnAlertChanged.listener: event=%d: %v", ev, err)
		}
	})
	defer func() {
		if err := listener.Close(); err != nil {
			r.l.Warnf(ctx, "internal.alert.repository.postgres.OnAlertChanged.Close: %v", err)
		}
	}()

	if err := listener.Listen(alertChangedChannel); err != nil {
		return errors.Wrapf(err, "listen %s", alertChangedChannel)
	}
	r.l.Infof(ctx, "internal.alert.repository.postgres.OnAlertChanged: listening on %s", alertChangedChannel)

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n := <-listener.Notify:
			if n == nil {
				fn(repository.AlertChange{Op: repository.ChangeReset})
				continue
			}
			change, err := decodeAlertChange(n.Extra)
			if err != nil {
				r.l.Warnf(ctx, "internal.alert.repository.postgres.OnAlertChanged.decode: %v", err)
				fn(repository.AlertChange{Op: repository.ChangeReset})
				continue
			}
			fn(change)

		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					r.l.Warnf(ctx, "internal.alert.repository.postgres.OnAlertChanged.Ping: %v", err)
				}
			}()
		}
	}
}

func decodeAlertChange(payload string) (repository.AlertChange, error) {
	var c repository.AlertChange
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return repository.AlertChange{}, errors.Wrap(err, "decode alert_changed payload")
	}
	if c.StationCode == "" {
		return repository.AlertChange{}, errors.New("alert_changed payload without station_code")
	}
	return c, nil
}
