package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer sends plain text mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

var _ port.MailerPort = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, errors.New("smtp host and sender address are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func buildMessage(from string, email domain.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, email domain.Email) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SMTPMailer",
		"to":        email.To,
	})

	msg, err := buildMessage(m.from, email)
	if err != nil {
		logger.Error("Failed to build message", err, nil)
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Error("Failed to deliver message", err, nil)
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	logger.Info("Mail sent", port.Fields{"subject": email.Subject})
	return nil
}
