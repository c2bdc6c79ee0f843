package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"worksphere/internal/config"
	"worksphere/internal/dashboard"
	"worksphere/internal/messaging/kafka"
	"worksphere/internal/messaging/kafka/producer"
	"worksphere/internal/shared/connection"
	"worksphere/internal/user"
)

// outboxRetention is how long sent outbox rows are kept for inspection.
const outboxRetention = 7 * 24 * time.Hour

// RunWorker relays the outbox to Kafka and keeps the global dashboard cache
// warm until SIGINT or SIGTERM. Sent outbox rows are purged hourly.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	dashboardService := dashboard.NewService(
		dashboard.NewRepository(gormDB),
		user.NewRepository(gormDB),
		rdb,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.DashboardRefreshInterval),
		gocron.NewTask(func() {
			if err := dashboardService.Refresh(ctx); err != nil {
				logger.Error("dashboard refresh failed", zap.Error(err))
			}
		}),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			purged, err := outboxRepo.PurgeSent(ctx, time.Now().Add(-outboxRetention))
			if err != nil {
				logger.Error("outbox purge failed", zap.Error(err))
				return
			}
			if purged > 0 {
				logger.Info("outbox purged", zap.Int64("rows", purged))
			}
		}),
		gocron.WithName("outbox-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	scheduler.Start()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		producer.RelayConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
		},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	if err := scheduler.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown failed", zap.Error(err))
	}

	return nil
}
