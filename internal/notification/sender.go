// Package notification delivers email through the Resend HTTP API: the
// portfolio PDF to requesters and operator notifications for new
// submissions.
package notification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "maraisroos.co.za/formgate/internal/pkg/errors"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// Attachment is a file attached to an outbound email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Email is one outbound message.
type Email struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// ResendSender posts emails to the Resend API.
type ResendSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewResendSender creates a sender with the given API key. baseURL is
// overridable for tests; empty means the production endpoint.
func NewResendSender(apiKey, baseURL string) *ResendSender {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ResendSender{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html,omitempty"`
	Text        string             `json:"text,omitempty"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// Send posts the email. Non-2xx responses are returned as errors with the
// response body attached for operator logs.
func (s *ResendSender) Send(ctx context.Context, email *Email) error {
	payload := resendRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	}
	for _, att := range email.Attachments {
		payload.Attachments = append(payload.Attachments, resendAttachment{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.New(apperrors.CodeEmailSendFailed,
			fmt.Sprintf("resend returned %d: %s", resp.StatusCode, string(detail)),
			http.StatusBadGateway)
	}
	return nil
}

// DisabledSender fails every send with a configuration error. Used when no
// API key is configured so misconfiguration is visible instead of silent.
type DisabledSender struct{}

// Send always returns the not-configured error.
func (DisabledSender) Send(context.Context, *Email) error {
	return apperrors.Internal(apperrors.CodeEmailNotConfig, "email service is not configured")
}
