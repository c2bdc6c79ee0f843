package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"worksphere/internal/bootstrap"
	"worksphere/internal/events"
)

// ConsumePaymentRequestLifecycle writes an audit record for every payment
// request decision.
func ConsumePaymentRequestLifecycle(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payment_request_lifecycle")
	log.Info("payment request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payment request lifecycle consumer stopped")
				return
			}
			log.Error("fetch payment request message failed", zap.Error(err))
			continue
		}

		var event events.PaymentRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payment request event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  event.EventType,
			Message: "payment request " + event.PaymentRequestID,
			Meta: map[string]any{
				"payment_request_id": event.PaymentRequestID,
				"employee_uid":       event.EmployeeUID,
				"amount":             event.Amount,
				"month":              event.Month,
				"year":               event.Year,
				"transaction_id":     event.TransactionID,
				"processed_by":       event.ProcessedBy,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payment request message failed", zap.Error(err))
		}
	}
}
