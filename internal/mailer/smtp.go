package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/booking-service/internal/config"
)

type smtpSender struct {
	from   string
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPSender builds a gomail-backed sender.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, errors.New("MAIL_HOST, MAIL_PORT and MAIL_FROM must be configured for the smtp backend")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{
		from:   cfg.From,
		dialer: dialer,
		logger: logger.Named("mailer"),
	}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients provided for email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	switch {
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
		if msg.TextBody != "" {
			m.AddAlternative("text/plain", msg.TextBody)
		}
	case msg.TextBody != "":
		m.SetBody("text/plain", msg.TextBody)
	default:
		return errors.New("email body must be provided")
	}

	if err := ctx.Err(); err != nil {
		s.logger.Warn("email send cancelled", zap.Strings("to", msg.To), zap.Error(err))
		return fmt.Errorf("email sending cancelled: %w", err)
	}
	// Synchronous so a send never outlives the caller's transaction. gomail
	// bounds the dial with its own 10s timeout.
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("email send failed", zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
