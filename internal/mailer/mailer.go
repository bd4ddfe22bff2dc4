// Package mailer delivers transactional email such as password reset codes.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/config"
)

// Message is a single outgoing email.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers messages. Implementations must return an error when the
// message was not accepted for delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New selects the backend named in cfg.
func New(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Backend) {
	case "smtp":
		return NewSMTPSender(cfg, logger)
	case "console", "":
		return NewConsoleSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_BACKEND %q", cfg.Backend)
	}
}

// PasswordResetMessage renders the reset code email.
func PasswordResetMessage(to, code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		To:      []string{to},
		Subject: "Password Reset OTP from HYPNOTHERAPY",
		TextBody: fmt.Sprintf(
			"Your OTP for password reset is %s. It will expire in %d minutes.", code, minutes),
		HTMLBody: fmt.Sprintf(
			"<p>Your OTP for password reset is <b>%s</b>.</p><p>It will expire in %d minutes.</p>", code, minutes),
	}
}
