package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"

	"github.com/cenkalti/backoff/v4"
)

var errChangeFeedClosed = errors.New("alert change feed closed")

// stationWorker processes the snapshots of one station in arrival order.
type stationWorker struct {
	code  string
	queue chan model.StationSnapshot
}

// Run subscribes to the snapshot source and fans snapshots out to one
// worker per station. When ctx is done or Shutdown is called it stops
// subscribing, drains the queues and waits for in-flight dispatches.
func (uc *implUseCase) Run(ctx context.Context) error {
	uc.runMu.Lock()
	if uc.running {
		uc.runMu.Unlock()
		return alert.ErrEngineRunning
	}
	select {
	case <-uc.done:
		uc.runMu.Unlock()
		return alert.ErrEngineStopped
	default:
	}
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	uc.running = true
	uc.stop = stop
	uc.runMu.Unlock()
	defer close(uc.done)

	snapshots, err := uc.source.Subscribe(runCtx, uc.opts.Stations...)
	if err != nil {
		return fmt.Errorf("subscribe snapshots: %w", err)
	}
	uc.l.Infof(ctx, "internal.alert.usecase.Run: engine started, stations=%d", len(uc.opts.Stations))

	var feed sync.WaitGroup
	feed.Add(1)
	go func() {
		defer feed.Done()
		uc.watchChanges(runCtx)
	}()

	workerCtx := context.WithoutCancel(ctx)
loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case s, ok := <-snapshots:
			if !ok {
				break loop
			}
			uc.enqueue(workerCtx, s)
		}
	}

	uc.l.Infof(ctx, "internal.alert.usecase.Run: draining %d station workers", len(uc.workers))
	for _, w := range uc.workers {
		close(w.queue)
	}
	uc.wg.Wait()
	stop()
	feed.Wait()
	uc.l.Infof(ctx, "internal.alert.usecase.Run: engine stopped")
	return nil
}

// enqueue blocks while the station queue is full. The wait holds up the
// subscription loop, so every station stalls until the slow one drains.
func (uc *implUseCase) enqueue(ctx context.Context, s model.StationSnapshot) {
	if s.StationCode == "" {
		uc.l.Warnf(ctx, "internal.alert.usecase.enqueue: dropping snapshot without station code")
		return
	}

	w, ok := uc.workers[s.StationCode]
	if !ok {
		w = &stationWorker{
			code:  s.StationCode,
			queue: make(chan model.StationSnapshot, uc.opts.QueueSize),
		}
		uc.workers[s.StationCode] = w
		uc.wg.Add(1)
		go uc.work(ctx, w)
	}

	uc.metrics.QueueDepth.WithLabelValues(w.code).Inc()
	select {
	case w.queue <- s:
		return
	default:
	}

	uc.metrics.QueueFull.WithLabelValues(w.code).Inc()
	uc.l.Warnf(ctx, "internal.alert.usecase.enqueue: station %s queue full (%d), ingestion paused", w.code, cap(w.queue))
	w.queue <- s
}

func (uc *implUseCase) work(ctx context.Context, w *stationWorker) {
	defer uc.wg.Done()
	for s := range w.queue {
		uc.metrics.QueueDepth.WithLabelValues(w.code).Dec()
		if err := uc.HandleSnapshot(ctx, s); err != nil {
			uc.l.Warnf(ctx, "internal.alert.usecase.work: station %s: %v", w.code, err)
		}
	}
}

// Shutdown stops the subscription and waits for Run to drain, bounded by
// ctx. It is a no-op when Run was never started.
func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.runMu.Lock()
	running, stop := uc.running, uc.stop
	uc.runMu.Unlock()
	if !running {
		return nil
	}
	stop()

	select {
	case <-uc.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", alert.ErrShutdownIncomplete, ctx.Err())
	}
}

// watchChanges keeps the alert cache coherent with the store until ctx is
// done. Every feed interruption purges the cache since changes may have
// been missed.
func (uc *implUseCase) watchChanges(ctx context.Context) {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = changeFeedRetryMaxBackoff
	b.MaxElapsedTime = 0

	op := func() error {
		err := uc.repo.OnAlertChanged(ctx, uc.handleAlertChange)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errChangeFeedClosed
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		uc.alerts.purge()
		uc.l.Warnf(ctx, "internal.alert.usecase.watchChanges: %v, retrying in %s", err, d)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil && !errors.Is(err, context.Canceled) {
		uc.l.Errorf(ctx, "internal.alert.usecase.watchChanges: %v", err)
	}
}

func (uc *implUseCase) handleAlertChange(c repository.AlertChange) {
	switch c.Op {
	case repository.ChangeReset:
		uc.alerts.purge()
		return
	case repository.ChangeDelete:
		uc.states.forget(c.AlertID)
	}
	uc.InvalidateStation(c.StationCode)
	if c.PreviousStationCode != "" && c.PreviousStationCode != c.StationCode {
		uc.InvalidateStation(c.PreviousStationCode)
	}
}

func (uc *implUseCase) InvalidateStation(stationCode string) {
	if stationCode == "" {
		return
	}
	uc.alerts.invalidate(stationCode)
}
