package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/cache"
	"github.com/avershin/flightledger/internal/email"
	"github.com/avershin/flightledger/internal/kafka"
	"github.com/avershin/flightledger/internal/opensky"
	"github.com/avershin/flightledger/internal/repository"
	"github.com/avershin/flightledger/internal/service/status"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The worker owns everything periodic: it consumes booking notifications for
// email delivery and refreshes the live-position feed on a ticker. The HTTP
// app never talks to the feed directly.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Worker.SearchCacheTTL)*time.Minute,
		time.Duration(cfg.Worker.LiveSnapshotCacheTTL)*time.Second,
	)

	bookingRepo := repository.NewBookingRepository(pool)
	liveRepo := repository.NewLiveStatusRepository(pool)
	feedClient := opensky.NewClient(cfg.OpenSky)
	statusService := status.NewStatusService(bookingRepo, liveRepo, redisCache, feedClient, logger)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logger.Warn("consumer stopped", "error", err)
		}
	}()

	sweep := time.Duration(cfg.Worker.LiveSweepMinutes) * time.Minute
	if sweep == 0 {
		sweep = 5 * time.Minute
	}
	liveTicker := time.NewTicker(sweep)
	defer liveTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-liveTicker.C:
			n, err := statusService.Refresh(ctx)
			if err != nil {
				// Feed trouble costs freshness, not correctness; keep going.
				logger.Warn("live feed refresh failed", "error", err)
				continue
			}
			logger.Info("live feed refreshed", "entries", n)
		case s := <-sig:
			logger.Info("received signal, shutting down", "signal", s.String())
			return
		}
	}
}
