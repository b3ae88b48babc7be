package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender stands in when no mail provider is configured: it logs the
// notification and reports success so the outbox drains.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.Info("email skipped: no mail provider configured",
		zap.String("to", to), zap.String("subject", subject))
	return nil
}
