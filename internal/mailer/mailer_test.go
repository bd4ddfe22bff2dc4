package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/booking-service/internal/config"
)

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("a@b.com", "0042", 10*time.Minute)

	assert.Equal(t, []string{"a@b.com"}, msg.To)
	assert.Equal(t, "Password Reset OTP from HYPNOTHERAPY", msg.Subject)
	assert.Equal(t, "Your OTP for password reset is 0042. It will expire in 10 minutes.", msg.TextBody)
	assert.Contains(t, msg.HTMLBody, "<b>0042</b>")
}

func TestNewSelectsBackend(t *testing.T) {
	logger := zap.NewNop()

	s, err := New(config.MailConfig{Backend: ""}, logger)
	require.NoError(t, err)
	assert.IsType(t, &consoleSender{}, s)

	s, err = New(config.MailConfig{Backend: "SMTP", Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, s)

	_, err = New(config.MailConfig{Backend: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestSMTPSenderRequiresServer(t *testing.T) {
	_, err := NewSMTPSender(config.MailConfig{Backend: "smtp", Port: 587}, zap.NewNop())
	assert.Error(t, err)
}

func TestSMTPEncryptionModes(t *testing.T) {
	base := config.MailConfig{Host: "smtp.example.com", Port: 465, From: "no-reply@example.com"}

	ssl := base
	ssl.Encryption = "ssl"
	s, err := NewSMTPSender(ssl, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, s.(*smtpSender).dialer.SSL)

	plain := base
	plain.Encryption = "none"
	s, err = NewSMTPSender(plain, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s.(*smtpSender).dialer.TLSConfig)
}

func TestSMTPSendValidatesMessage(t *testing.T) {
	s, err := NewSMTPSender(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"}, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, s.Send(context.Background(), Message{Subject: "x", TextBody: "y"}))
	assert.Error(t, s.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "x"}))
}

func TestSMTPSendSkipsDialWhenContextCancelled(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := NewSMTPSender(config.MailConfig{Host: "127.0.0.1", Port: 1, From: "no-reply@example.com"}, zap.New(core))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Send(ctx, Message{To: []string{"a@b.com"}, Subject: "x", TextBody: "y"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "email send cancelled", logs.All()[0].Message)
}

func TestConsoleSenderLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewConsoleSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), PasswordResetMessage("a@b.com", "1234", 10*time.Minute)))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Password Reset OTP from HYPNOTHERAPY", entry.ContextMap()["subject"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{}), context.Canceled)
}
