package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"worksphere/internal/bootstrap"
	"worksphere/internal/config"
	"worksphere/internal/events"
	"worksphere/internal/messaging/kafka/consumer"
	"worksphere/internal/shared/connection"
)

const (
	cacheInvalidationGroup = "worksphere-cache-invalidation"
	paymentRequestAudit    = "worksphere-payment-request-audit"
)

// RunConsumer drops stale cache keys raised by other instances and audits
// payment request decisions until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	invalidationReader := consumer.NewReader(cfg.KafkaBroker, cacheInvalidationGroup, events.CacheInvalidationTopic)
	defer invalidationReader.Close()

	auditReader := consumer.NewReader(cfg.KafkaBroker, paymentRequestAudit, events.PaymentRequestLifecycleTopic)
	defer auditReader.Close()

	bus := newInvalidationBus(rdb, logger)
	audit := bootstrap.NewStdoutAuditLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeCacheInvalidation(ctx, invalidationReader, bus, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumePaymentRequestLifecycle(ctx, auditReader, audit, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
