package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

const ResendEndpoint = "https://api.resend.com/emails"

// ResendMailer sends mail through the Resend HTTP API.
type ResendMailer struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

var _ port.MailerPort = (*ResendMailer)(nil)

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func NewResendMailer(apiKey, from, endpoint string) (*ResendMailer, error) {
	if apiKey == "" || from == "" {
		return nil, errors.New("resend api key and sender address are required")
	}
	if endpoint == "" {
		endpoint = ResendEndpoint
	}
	return &ResendMailer{
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (m *ResendMailer) Send(ctx context.Context, email domain.Email) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ResendMailer",
		"to":        email.To,
	})

	payload, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		logger.Error("Failed to send request to Resend", err, nil)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(body))
		logger.Error("Resend rejected the message", err, port.Fields{"status_code": resp.StatusCode})
		return err
	}

	logger.Info("Mail sent", port.Fields{"subject": email.Subject})
	return nil
}
