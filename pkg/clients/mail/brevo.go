package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"waitlist-api/pkg/clients/llm"
)

const defaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

// Config holds the settings for the Brevo sender.
type Config struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	AppName     string
	BaseURL     string // defaults to the Brevo transactional endpoint
}

type party struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	HTMLContent string  `json:"htmlContent"`
}

// BrevoClient delivers welcome emails through the Brevo transactional API.
// Accepts an optional http.Client for custom timeouts or transport settings.
type BrevoClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewBrevoClient(cfg Config, httpClient *http.Client) *BrevoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBrevoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &BrevoClient{cfg: cfg, httpClient: httpClient}
}

// Send renders the welcome template and submits it with the generated subject
// to a single recipient.
func (c *BrevoClient) Send(ctx context.Context, to string, content llm.Content) error {
	html, err := renderWelcome(content, c.cfg.AppName)
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("failed to render email body: %w", err)}
	}

	payload := sendRequest{
		Sender:      party{Email: c.cfg.SenderEmail, Name: c.cfg.SenderName},
		To:          []party{{Email: to}},
		Subject:     content.Subject,
		HTMLContent: html,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("failed to marshal send request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("send request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &DeliveryError{Err: fmt.Errorf("send failed with status %d: %s", resp.StatusCode, string(respBody))}
	}
	return nil
}
