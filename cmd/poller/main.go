package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"station-alert-srv/config"
	"station-alert-srv/config/postgre"
	configRedis "station-alert-srv/config/redis"
	snapshotRedis "station-alert-srv/internal/snapshot/delivery/redis"
	"station-alert-srv/internal/snapshot/opendata"
	stationPostgres "station-alert-srv/internal/station/repository/postgre"
	"station-alert-srv/pkg/log"
)

// The poller reads the open-data availability feed and publishes one
// snapshot per station for the engine.
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
		Service:      "poller",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf(ctx, "poller: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	db, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer postgre.Disconnect(db)

	redisClient, err := configRedis.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	client := opendata.NewClient(logger, opendata.ClientOptions{
		BaseURL:        cfg.OpenData.BaseURL,
		PageSize:       cfg.OpenData.PageSize,
		Timeout:        cfg.OpenData.Timeout,
		PagesPerSecond: cfg.OpenData.PagesPerSecond,
	})
	poller := opendata.NewPoller(
		logger,
		client,
		stationPostgres.New(logger, db),
		snapshotRedis.NewPublisher(logger, redisClient.Client),
		cfg.OpenData.Interval,
	)

	logger.Infof(ctx, "Polling %s every %s", cfg.OpenData.BaseURL, cfg.OpenData.Interval)
	if err := poller.Run(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Poller stopped")
	return nil
}
