package mailer

import (
	"context"

	"go.uber.org/zap"
)

type consoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender writes messages to the log instead of sending them.
// Intended for local development.
func NewConsoleSender(logger *zap.Logger) Sender {
	return &consoleSender{logger: logger.Named("mailer")}
}

func (s *consoleSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("email (console backend)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody))
	return nil
}
