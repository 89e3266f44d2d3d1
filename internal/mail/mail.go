// Package mail delivers transactional email.
package mail

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/gomail.v2"
)

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. A returned error means the message was not sent.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    hclog.Logger
}

// NewSMTPSender creates an SMTP-backed Sender.
func NewSMTPSender(cfg SMTPConfig, log hclog.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log.Named("smtp"),
	}
}

// Send dials the relay and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(buildMessage(s.from, msg)); err != nil {
		s.log.Warn("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	s.log.Debug("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP relay is configured.
type LogSender struct {
	log hclog.Logger
}

// NewLogSender creates a Sender that only logs.
func NewLogSender(log hclog.Logger) *LogSender {
	return &LogSender{log: log.Named("mail")}
}

// Send logs msg.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
