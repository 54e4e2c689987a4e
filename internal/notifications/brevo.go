package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var (
	ErrNilClient    = errors.New("brevo client is nil")
	ErrInvalidEmail = errors.New("incomplete email message")
)

// BrevoClient sends transactional e-mail through the Brevo HTTP API.
type BrevoClient struct {
	apiKey     string
	sender     brevoContact
	salesEmail string
	sandbox    bool
	endpoint   string
	httpClient *http.Client
}

type BrevoConfig struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	SalesEmail  string
	Sandbox     bool
	Endpoint    string
}

// NewBrevoClient returns nil when the API key or sender is missing, which
// callers treat as "notifications disabled".
func NewBrevoClient(cfg BrevoConfig) *BrevoClient {
	apiKey := strings.TrimSpace(cfg.APIKey)
	senderEmail := strings.TrimSpace(cfg.SenderEmail)
	if apiKey == "" || senderEmail == "" {
		return nil
	}
	senderName := strings.TrimSpace(cfg.SenderName)
	if senderName == "" {
		senderName = senderEmail
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultBrevoEndpoint
	}
	return &BrevoClient{
		apiKey:     apiKey,
		sender:     brevoContact{Email: senderEmail, Name: senderName},
		salesEmail: strings.TrimSpace(cfg.SalesEmail),
		sandbox:    cfg.Sandbox,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// email is one outgoing message. ReplyTo is optional.
type email struct {
	To      brevoContact
	ReplyTo *brevoContact
	Subject string
	HTML    string
	Tag     string
}

func (m email) validate() error {
	switch {
	case strings.TrimSpace(m.To.Email) == "":
		return fmt.Errorf("%w: missing recipient", ErrInvalidEmail)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidEmail)
	case strings.TrimSpace(m.HTML) == "":
		return fmt.Errorf("%w: missing html body", ErrInvalidEmail)
	}
	return nil
}

// send posts the message and returns Brevo's message id.
func (c *BrevoClient) send(ctx context.Context, msg email) (string, error) {
	if c == nil {
		return "", ErrNilClient
	}
	if err := msg.validate(); err != nil {
		return "", err
	}

	payload := brevoSendRequest{
		Sender:      c.sender,
		To:          []brevoContact{msg.To},
		ReplyTo:     msg.ReplyTo,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}
	if msg.Tag != "" {
		payload.Tags = []string{msg.Tag}
	}
	if c.sandbox {
		payload.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

type brevoSendRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	ReplyTo     *brevoContact     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Tags        []string          `json:"tags,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
