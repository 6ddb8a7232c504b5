package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"
	"station-alert-srv/internal/notifier"
	stationRepo "station-alert-srv/internal/station/repository"
	"station-alert-srv/pkg/log"
	"station-alert-srv/pkg/minio"
	"station-alert-srv/pkg/paginator"
)

var errStoreDown = errors.New("store down")

type fakeRepo struct {
	mu         sync.Mutex
	alerts     map[string]model.Alert
	history    []model.NotificationEvent
	listCalls  int
	listErr    error
	historyErr error
	casErr     error
	changes    chan repository.AlertChange
	seq        int
}

func newFakeRepo(alerts ...model.Alert) *fakeRepo {
	r := &fakeRepo{alerts: make(map[string]model.Alert)}
	for _, a := range alerts {
		r.alerts[a.ID] = a
	}
	return r
}

func (r *fakeRepo) ListActiveAlerts(_ context.Context, station string) ([]model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Alert
	for _, a := range r.alerts {
		if a.StationCode == station && a.IsActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) UpdateLastSent(ctx context.Context, opts repository.UpdateLastSentOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.casErr != nil {
		return r.casErr
	}
	a, ok := r.alerts[opts.AlertID]
	if !ok {
		return repository.ErrNotFound
	}
	cur := a.LastNotificationSent
	switch {
	case cur == nil && opts.Previous == nil:
	case cur != nil && opts.Previous != nil && cur.Equal(*opts.Previous):
	default:
		return repository.ErrLastSentConflict
	}
	t := opts.SentAt
	a.LastNotificationSent = &t
	r.alerts[a.ID] = a
	return nil
}

func (r *fakeRepo) AppendHistory(ctx context.Context, e model.NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.historyErr != nil {
		return r.historyErr
	}
	r.history = append(r.history, e)
	return nil
}

func (r *fakeRepo) OnAlertChanged(ctx context.Context, fn func(repository.AlertChange)) error {
	if r.changes == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-r.changes:
			fn(c)
		}
	}
}

func (r *fakeRepo) Create(_ context.Context, opts repository.CreateOptions) (model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a := opts.Alert
	a.ID = fmt.Sprintf("alert-%d", r.seq)
	r.alerts[a.ID] = a
	return a, nil
}

func (r *fakeRepo) Detail(_ context.Context, id string) (model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *fakeRepo) Update(_ context.Context, opts repository.UpdateOptions) (model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[opts.ID]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	if opts.Threshold != nil {
		a.Threshold = *opts.Threshold
	}
	if opts.IsActive != nil {
		a.IsActive = *opts.IsActive
	}
	if opts.Frequency != nil {
		a.Frequency = *opts.Frequency
	}
	r.alerts[a.ID] = a
	return a, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}
	delete(r.alerts, id)
	return a, nil
}

func (r *fakeRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Alert
	for _, a := range r.alerts {
		if a.UserIdentifier == opts.UserIdentifier && (!opts.ActiveOnly || a.IsActive) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListHistory(_ context.Context, opts repository.ListHistoryOptions) ([]model.NotificationEvent, paginator.Paginator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.NotificationEvent
	for _, e := range r.history {
		if e.Recipient == opts.Recipient {
			out = append(out, e)
		}
	}
	return out, paginator.New(opts.PaginateQuery, int64(len(out)), len(out)), nil
}

func (r *fakeRepo) ListHistoryBefore(_ context.Context, t time.Time) ([]model.NotificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.NotificationEvent
	for _, e := range r.history {
		if e.SentAt.Before(t) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteHistoryBefore(_ context.Context, t time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []model.NotificationEvent
	for _, e := range r.history {
		if !e.SentAt.Before(t) {
			kept = append(kept, e)
		}
	}
	n := int64(len(r.history) - len(kept))
	r.history = kept
	return n, nil
}

func (r *fakeRepo) events() []model.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.NotificationEvent(nil), r.history...)
}

func (r *fakeRepo) alert(id string) model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alerts[id]
}

type sentCall struct {
	n   notifier.Notification
	ctx context.Context
}

type fakeSender struct {
	mu    sync.Mutex
	calls []sentCall
	fail  map[int]error
	block chan struct{}
	// untilDeadline holds every send until its context is done.
	untilDeadline bool
}

func (s *fakeSender) Send(ctx context.Context, n notifier.Notification) (model.DeliveryStatus, error) {
	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, sentCall{n: n, ctx: ctx})
	err := s.fail[idx]
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if s.untilDeadline {
		<-ctx.Done()
	}
	if err != nil {
		return model.StatusFailed, err
	}
	return model.StatusSent, nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakeStations struct {
	names map[string]string
	calls int
}

func (f *fakeStations) Name(_ context.Context, code string) (string, error) {
	f.calls++
	name, ok := f.names[code]
	if !ok {
		return "", stationRepo.ErrNotFound
	}
	return name, nil
}

func (f *fakeStations) UpsertStations(context.Context, []model.Station) error { return nil }

type fakeSource struct {
	ch    chan model.StationSnapshot
	codes []string
}

func (f *fakeSource) Subscribe(ctx context.Context, codes ...string) (<-chan model.StationSnapshot, error) {
	f.codes = codes
	out := make(chan model.StationSnapshot)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-f.ch:
				if !ok {
					return
				}
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

type fakeArchive struct {
	mu   sync.Mutex
	objs map[string][]byte
	err  error
}

func (f *fakeArchive) Connect(context.Context) error     { return nil }
func (f *fakeArchive) HealthCheck(context.Context) error { return nil }
func (f *fakeArchive) Bucket() string                    { return "archive" }
func (f *fakeArchive) Close() error                      { return nil }

func (f *fakeArchive) PutObject(_ context.Context, key string, r io.Reader, size int64, _ string) (minio.ObjectInfo, error) {
	if f.err != nil {
		return minio.ObjectInfo{}, f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.ObjectInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objs == nil {
		f.objs = make(map[string][]byte)
	}
	f.objs[key] = b
	return minio.ObjectInfo{Key: key, Size: size}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type phaseRecorder struct {
	mu     sync.Mutex
	phases map[string][]alert.Phase
}

func (p *phaseRecorder) record(id string, ph alert.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phases == nil {
		p.phases = make(map[string][]alert.Phase)
	}
	p.phases[id] = append(p.phases[id], ph)
}

func (p *phaseRecorder) of(id string) []alert.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]alert.Phase(nil), p.phases[id]...)
}

type testEnv struct {
	uc      *implUseCase
	repo    *fakeRepo
	sender  *fakeSender
	clock   *fakeClock
	phases  *phaseRecorder
	archive *fakeArchive
	step    int
}

var t0 = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

func newTestEnv(alerts ...model.Alert) *testEnv {
	repo := newFakeRepo(alerts...)
	sender := &fakeSender{}
	clock := &fakeClock{now: t0}
	phases := &phaseRecorder{}
	archive := &fakeArchive{}

	uc := New(log.NewNop(), Deps{
		Repo:     repo,
		Stations: &fakeStations{names: map[string]string{"16107": "Benjamin Godard - Victor Hugo"}},
		Sender:   sender,
		Archive:  archive,
	}, Options{})
	uc.clock = clock.Now
	ids := 0
	uc.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	uc.onPhase = phases.record

	return &testEnv{uc: uc, repo: repo, sender: sender, clock: clock, phases: phases, archive: archive}
}

// feed handles one snapshot per value, one minute apart across calls, with
// the clock following the snapshot time.
func (e *testEnv) feed(ctx context.Context, station string, kind model.AlertKind, values ...int) []error {
	var errs []error
	for _, v := range values {
		s := snapshotOf(station, e.at(e.step), kind, v)
		e.step++
		e.clock.Set(s.Timestamp)
		errs = append(errs, e.uc.HandleSnapshot(ctx, s))
	}
	return errs
}

func (e *testEnv) at(step int) time.Time {
	return t0.Add(time.Duration(step) * time.Minute)
}

func snapshotOf(station string, at time.Time, kind model.AlertKind, v int) model.StationSnapshot {
	s := model.StationSnapshot{StationCode: station, Timestamp: at}
	switch kind {
	case model.KindBikesAvailable:
		s.BikesAvailable = v
	case model.KindDocksAvailable:
		s.DocksAvailable = v
	case model.KindEBikesAvailable:
		s.EBikesAvailable = v
	case model.KindMechanicalAvailable:
		s.MechanicalBikesAvailable = v
	}
	return s
}

func alertOf(id, station string, kind model.AlertKind, threshold int, freq model.Frequency) model.Alert {
	return model.Alert{
		ID:             id,
		StationCode:    station,
		Kind:           kind,
		Threshold:      threshold,
		IsActive:       true,
		Frequency:      freq,
		Recipient:      id + "@example.com",
		UserIdentifier: "user-" + id,
	}
}

type countingReporter struct {
	ch chan struct{}
}

func (r *countingReporter) Report(context.Context, notifier.Report) error {
	r.ch <- struct{}{}
	return nil
}
