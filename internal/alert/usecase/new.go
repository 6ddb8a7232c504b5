package usecase

import (
	"context"
	"sync"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/notifier"
	"station-alert-srv/internal/snapshot"
	stationRepo "station-alert-srv/internal/station/repository"
	"station-alert-srv/pkg/log"
	"station-alert-srv/pkg/minio"
	postgresPkg "station-alert-srv/pkg/postgre"
)

const (
	defaultQueueSize          = 64
	defaultAlertCacheSize     = 4096
	defaultAlertCacheTTL      = 5 * time.Minute
	defaultStationNameTTL     = time.Hour
	defaultSendTimeout        = 30 * time.Second
	defaultStoreTimeout       = 10 * time.Second
	defaultDispatchLimit      = 16
	defaultStoreReportAfter   = 5
	archivePrefix             = "notification-history"
	changeFeedRetryMaxBackoff = time.Minute
)

type Options struct {
	// Stations restricts the subscription. Empty means every station.
	Stations       []string
	QueueSize      int
	AlertCacheSize int
	AlertCacheTTL  time.Duration
	StationNameTTL time.Duration
	SendTimeout    time.Duration
	// StoreTimeout bounds the history and last-sent writes after a send.
	StoreTimeout time.Duration
	// DispatchLimit bounds concurrent sends within one snapshot.
	DispatchLimit int
	// StoreReportAfter consecutive store failures trigger one operator report.
	StoreReportAfter int
}

// Deps are the collaborators of the use case. Source is only needed by Run,
// Archive may be nil to purge without archiving.
type Deps struct {
	Repo     repository.Repository
	Stations stationRepo.Repository
	Source   snapshot.Source
	Sender   notifier.Sender
	Reporter notifier.Reporter
	Archive  minio.MinIO
	Metrics  *Metrics
}

type implUseCase struct {
	l        log.Logger
	repo     repository.Repository
	stations stationRepo.Repository
	source   snapshot.Source
	sender   notifier.Sender
	reporter notifier.Reporter
	archive  minio.MinIO
	metrics  *Metrics
	opts     Options

	clock func() time.Time
	newID func() string

	states    *stateStore
	evaluator *evaluator
	alerts    *alertCache
	names     *nameCache

	storeFailures int
	storeMu       sync.Mutex

	runMu   sync.Mutex
	running bool
	stop    context.CancelFunc
	done    chan struct{}
	workers map[string]*stationWorker
	wg      sync.WaitGroup

	// onPhase observes phase transitions. Set by tests.
	onPhase func(alertID string, p alert.Phase)
}

var (
	_ alert.Engine  = (*implUseCase)(nil)
	_ alert.UseCase = (*implUseCase)(nil)
)

func New(l log.Logger, deps Deps, opts Options) *implUseCase {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.AlertCacheSize <= 0 {
		opts.AlertCacheSize = defaultAlertCacheSize
	}
	if opts.AlertCacheTTL <= 0 {
		opts.AlertCacheTTL = defaultAlertCacheTTL
	}
	if opts.StationNameTTL <= 0 {
		opts.StationNameTTL = defaultStationNameTTL
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.DispatchLimit <= 0 {
		opts.DispatchLimit = defaultDispatchLimit
	}
	if opts.StoreReportAfter <= 0 {
		opts.StoreReportAfter = defaultStoreReportAfter
	}
	if deps.Reporter == nil {
		deps.Reporter = notifier.NopReporter()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(nil)
	}

	states := newStateStore()
	return &implUseCase{
		l:         l,
		repo:      deps.Repo,
		stations:  deps.Stations,
		source:    deps.Source,
		sender:    deps.Sender,
		reporter:  deps.Reporter,
		archive:   deps.Archive,
		metrics:   deps.Metrics,
		opts:      opts,
		clock:     time.Now,
		newID:     postgresPkg.NewUUID,
		states:    states,
		evaluator: newEvaluator(l, states, deps.Metrics),
		alerts:    newAlertCache(opts.AlertCacheSize, opts.AlertCacheTTL),
		names:     newNameCache(opts.AlertCacheSize, opts.StationNameTTL),
		done:      make(chan struct{}),
		workers:   make(map[string]*stationWorker),
	}
}
