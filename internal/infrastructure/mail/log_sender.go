package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
)

// LogSender writes mail to the log instead of delivering it. Used when no
// SMTP host is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, m domain.Mail) error {
	s.log.Info().Str("to", m.To).Str("subject", m.Subject).Msg("smtp not configured, mail logged only")
	return nil
}
