package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"worksphere/internal/shared/contextutil"
)

// StdoutAuditLogger writes audit records through the global zap logger.
type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{logger: zap.L().Named("audit")}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := append(contextutil.Fields(ctx),
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
	l.logger.Info("audit event", fields...)
}
