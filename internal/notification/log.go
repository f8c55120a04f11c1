package notification

import (
	"context"
	"log/slog"
)

// LogService writes verification codes to the log instead of sending email.
// It stands in for SMTP in development; never use it in production.
type LogService struct {
	logger *slog.Logger
}

// NewLogService creates a log-backed notifier.
func NewLogService(logger *slog.Logger) *LogService {
	return &LogService{logger: logger}
}

// SendVerificationCode logs the code that would have been emailed.
func (s *LogService) SendVerificationCode(_ context.Context, to, code string) error {
	s.logger.Info("verification code issued", "to", to, "code", code)
	return nil
}
