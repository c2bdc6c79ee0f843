package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksphere/internal/payment"
	"worksphere/internal/paymentrequest"
	"worksphere/internal/user"
	"worksphere/internal/worksheet"
)

// Tables without a gorm model. The outbox is written through database/sql
// and counters through raw upserts.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id TEXT,
		aggregate_type VARCHAR(64) NOT NULL,
		aggregate_id VARCHAR(128) NOT NULL,
		event_type VARCHAR(64) NOT NULL,
		topic VARCHAR(255) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		processed_at TIMESTAMPTZ,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending
		ON outbox_events (status, next_retry_at, created_at)`,
	`CREATE TABLE IF NOT EXISTS counters (
		scope VARCHAR(64) NOT NULL,
		counter_type VARCHAR(64) NOT NULL,
		last_value BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uq_counters_scope_type UNIQUE (scope, counter_type)
	)`,
	// One open or approved request per employee and period. Rejected
	// requests do not count, so an employee can ask again after a rejection.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_request_period
		ON payment_requests (employee_uid, month, year)
		WHERE status <> 'rejected'`,
}

// Migrate brings the schema up to date. It is safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	logger := zap.L().Named("app.migrate")

	if err := db.WithContext(ctx).AutoMigrate(
		&user.User{},
		&worksheet.Worksheet{},
		&payment.Payment{},
		&paymentrequest.PaymentRequest{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range rawSchema {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	logger.Info("schema migrated")
	return nil
}
