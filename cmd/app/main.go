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
	"github.com/avershin/flightledger/internal/amadeus"
	"github.com/avershin/flightledger/internal/bootstrap"
	"github.com/avershin/flightledger/internal/cache"
	"github.com/avershin/flightledger/internal/genai"
	"github.com/avershin/flightledger/internal/kafka"
	"github.com/avershin/flightledger/internal/opensky"
	"github.com/avershin/flightledger/internal/repository"
	"github.com/avershin/flightledger/internal/service/assistant"
	"github.com/avershin/flightledger/internal/service/auth"
	"github.com/avershin/flightledger/internal/service/flights"
	"github.com/avershin/flightledger/internal/service/ledger"
	"github.com/avershin/flightledger/internal/service/status"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

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
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	liveRepo := repository.NewLiveStatusRepository(pool)

	searchClient := amadeus.NewClient(cfg.Amadeus)
	feedClient := opensky.NewClient(cfg.OpenSky)
	completer := genai.NewClient(cfg.Gemini)

	svcs := bootstrap.Services{
		Auth: auth.NewAuthService(
			userRepo, bookingRepo, couponRepo,
			cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
			cfg.Auth.BcryptCost,
		),
		Ledger: ledger.NewLedgerService(
			bookingRepo, couponRepo, redisCache, producer,
			cfg.Kafka.BookingTopic,
			cfg.Savings.ReferencePrice,
			ledger.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			ledger.WithLogger(logger),
		),
		Flights:   flights.NewFlightService(searchClient, completer, redisCache, bookingRepo, userRepo, logger),
		Status:    status.NewStatusService(bookingRepo, liveRepo, redisCache, feedClient, logger),
		Assistant: assistant.NewAssistantService(completer, logger),
	}

	if err := bootstrap.Run(ctx, cfg, svcs); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
