package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/log"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

const (
	DefaultMaxAttempts     = 3
	DefaultRetryDelay      = 2 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = time.Minute
)

type ResilientOptions struct {
	Name string
	// MaxAttempts bounds tries per notification, first try included.
	MaxAttempts int
	// RetryDelay is the linear backoff step: the n-th retry waits n*RetryDelay.
	RetryDelay time.Duration
	// BreakerFailures consecutive failed notifications open the circuit.
	BreakerFailures uint32
	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

type resilientSender struct {
	l        log.Logger
	next     Sender
	reporter Reporter
	cb       *gobreaker.CircuitBreaker
	opts     ResilientOptions
	// timer paces retries; nil uses a real timer.
	timer backoff.Timer
}

// NewResilient wraps next with bounded linear retries and a circuit breaker.
// reporter is told when the circuit opens.
func NewResilient(l log.Logger, next Sender, reporter Reporter, opts ResilientOptions) Sender {
	if opts.Name == "" {
		opts.Name = "notifier"
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = defaultBreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = defaultBreakerTimeout
	}
	if reporter == nil {
		reporter = NopReporter()
	}

	s := &resilientSender{
		l:        l,
		next:     next,
		reporter: reporter,
		opts:     opts,
	}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    opts.Name,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrNoRecipient)
		},
		OnStateChange: s.onStateChange,
	})
	return s
}

// linearBackOff waits n*step before the n-th retry.
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }

func (s *resilientSender) onStateChange(name string, from, to gobreaker.State) {
	ctx := context.Background()
	s.l.Warnf(ctx, "internal.notifier.resilient: circuit %s %s -> %s", name, from, to)
	if to != gobreaker.StateOpen {
		return
	}
	go func() {
		rep := Report{
			Severity:    SeverityCritical,
			Title:       "Notification circuit open",
			Description: fmt.Sprintf("Sender %q stopped delivering notifications.", name),
			Fields: []ReportField{
				{Name: "Consecutive failures", Value: fmt.Sprint(s.opts.BreakerFailures), Inline: true},
				{Name: "Paused for", Value: s.opts.BreakerTimeout.String(), Inline: true},
			},
		}
		if err := s.reporter.Report(ctx, rep); err != nil {
			s.l.Errorf(ctx, "internal.notifier.resilient.Report: %v", err)
		}
	}()
}

func (s *resilientSender) Send(ctx context.Context, n Notification) (model.DeliveryStatus, error) {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.sendWithRetry(ctx, n)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return model.StatusFailed, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return model.StatusFailed, err
	}
	return model.StatusSent, nil
}

func (s *resilientSender) sendWithRetry(ctx context.Context, n Notification) error {
	var (
		attempt int
		lastErr error
	)
	op := func() error {
		attempt++
		status, err := s.next.Send(ctx, n)
		if err == nil && status == model.StatusSent {
			return nil
		}
		if err == nil {
			err = fmt.Errorf("sender returned status %q", status)
		}
		if errors.Is(err, ErrNoRecipient) {
			return backoff.Permanent(err)
		}
		lastErr = err
		s.l.Warnf(ctx, "internal.notifier.resilient.Send: attempt %d/%d to %s failed: %v",
			attempt, s.opts.MaxAttempts, n.Recipient, err)
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: s.opts.RetryDelay}, uint64(s.opts.MaxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotifyWithTimer(op, b, nil, s.timer)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoRecipient):
		return err
	case ctx.Err() != nil && lastErr != nil && !errors.Is(err, lastErr):
		return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
	}
	return fmt.Errorf("failed after %d attempts: %w", attempt, err)
}
