package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"station-alert-srv/config"
	configMinio "station-alert-srv/config/minio"
	"station-alert-srv/config/postgre"
	configRedis "station-alert-srv/config/redis"
	"station-alert-srv/internal/alert"
	alertHTTP "station-alert-srv/internal/alert/delivery/http"
	alertPostgres "station-alert-srv/internal/alert/repository/postgre"
	alertUsecase "station-alert-srv/internal/alert/usecase"
	"station-alert-srv/internal/httpserver"
	"station-alert-srv/internal/notifier"
	snapshotRedis "station-alert-srv/internal/snapshot/delivery/redis"
	stationPostgres "station-alert-srv/internal/station/repository/postgre"
	"station-alert-srv/pkg/discord"
	"station-alert-srv/pkg/email"
	"station-alert-srv/pkg/log"
	"station-alert-srv/pkg/minio"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const minioRetries = 5

// @title       Station Alert Service
// @description Threshold alerts on bike-share station availability.
// @version     1.0
// @BasePath    /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		Service:      "engine",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf(ctx, "engine: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	// Discord (optional)
	var discordClient discord.IDiscord
	reporter := notifier.NopReporter()
	if cfg.Discord.WebhookURL != "" {
		d, err := discord.New(logger, cfg.Discord.WebhookURL, discord.DefaultConfig())
		if err != nil {
			logger.Warnf(ctx, "Discord webhook disabled: %v", err)
		} else {
			discordClient = d
			reporter = notifier.NewDiscordReporter(d)
			defer d.Close()
			logger.Info(ctx, "Discord webhook initialized")
		}
	}

	// PostgreSQL
	db, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer postgre.Disconnect(db)

	alertRepo := alertPostgres.New(logger, db, cfg.Postgres.DSN())
	if cfg.Postgres.Migrate {
		if err := alertRepo.Migrate(ctx); err != nil {
			return err
		}
	}
	stationRepo := stationPostgres.New(logger, db)

	// Redis
	redisClient, err := configRedis.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// MinIO (optional)
	var archive minio.MinIO
	if cfg.MinIO.Enabled() {
		archive, err = configMinio.ConnectWithRetry(ctx, cfg.MinIO, minioRetries)
		if err != nil {
			return err
		}
		defer archive.Close()
		logger.Infof(ctx, "History archive bucket %s ready", archive.Bucket())
	}

	// SMTP
	mailer, err := email.New(email.Config{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		Username:           cfg.SMTP.Username,
		Password:           cfg.SMTP.Password,
		From:               cfg.SMTP.From,
		FromName:           cfg.SMTP.FromName,
		Security:           email.Security(cfg.SMTP.Security),
		Timeout:            cfg.SMTP.Timeout,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	})
	if err != nil {
		return err
	}
	sender := notifier.NewResilient(logger, notifier.NewEmailSender(mailer), reporter, notifier.ResilientOptions{
		Name:        "smtp",
		MaxAttempts: cfg.SMTP.MaxAttempts,
		RetryDelay:  cfg.SMTP.RetryDelay,
	})

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	uc := alertUsecase.New(logger, alertUsecase.Deps{
		Repo:     alertRepo,
		Stations: stationRepo,
		Source:   snapshotRedis.NewSource(logger, redisClient.Client, snapshotRedis.Options{}),
		Sender:   sender,
		Reporter: reporter,
		Archive:  archive,
		Metrics:  alertUsecase.NewMetrics(registry),
	}, alertUsecase.Options{
		Stations:       cfg.Engine.Stations,
		QueueSize:      cfg.Engine.QueueSize,
		AlertCacheSize: cfg.Engine.AlertCacheSize,
		AlertCacheTTL:  cfg.Engine.AlertCacheTTL,
		StationNameTTL: cfg.Engine.StationNameTTL,
		SendTimeout:    cfg.Engine.SendTimeout,
		StoreTimeout:   cfg.Engine.StoreTimeout,
	})

	checks := []httpserver.HealthCheck{
		{Name: "postgres", Check: db.PingContext},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}
	if archive != nil {
		checks = append(checks, httpserver.HealthCheck{Name: "minio", Check: archive.HealthCheck})
	}

	srv, err := httpserver.New(logger, httpserver.Config{
		Host:         cfg.HTTPServer.Host,
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		AlertHandler: alertHTTP.New(logger, uc, uc, discordClient),
		Gatherer:     registry,
		Checks:       checks,
		Discord:      discordClient,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return uc.Run(gctx) })
	g.Go(func() error {
		return uc.RunRetention(gctx, alert.RetentionOptions{
			Interval: cfg.Engine.RetentionInterval,
			Period:   cfg.Engine.RetentionPeriod,
		})
	})
	g.Go(func() error { return srv.Run(gctx) })

	<-gctx.Done()
	logger.Info(ctx, "Shutting down engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Engine.ShutdownTimeout)
	defer cancel()
	if err := uc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Engine shutdown: %v", err)
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "Engine stopped")
	return nil
}
