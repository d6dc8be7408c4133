package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	temperature    = 0.6

	// requestTimeout bounds the completion call. The store and mail calls run
	// without an explicit bound; only content generation gets one because the
	// model can stall for a long time.
	requestTimeout = 40 * time.Second
)

// Content is the LLM-drafted welcome email copy. The field names mirror the
// JSON contract demanded in the prompt. The reply is not schema-validated:
// extra keys are ignored and missing keys decode to empty strings.
type Content struct {
	Subject         string `json:"subject"`
	Heading         string `json:"heading"`
	Body            string `json:"body"`
	UnsubscribeNote string `json:"unsubscribe_note"`
}

// Generator defines the interface for drafting welcome-email copy.
// Implementations can be swapped between the OpenRouter client and a mock.
type Generator interface {
	Generate(ctx context.Context, recipientEmail string) (*Content, error)
}

// GenerationError wraps failures from the completion API.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("content generation: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// Config holds the settings for the OpenRouter client.
type Config struct {
	APIKey         string
	Model          string
	AppName        string
	SiteURL        string
	UnsubscribeURL string
	BaseURL        string // defaults to the OpenRouter API
}

// OpenRouterClient drafts welcome emails via the OpenRouter chat-completions
// API. Accepts an optional http.Client for custom timeouts or transport
// settings.
type OpenRouterClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewOpenRouterClient(cfg Config, httpClient *http.Client) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &OpenRouterClient{cfg: cfg, httpClient: httpClient}
}

// prompt is the fixed instruction sent for every subscriber. The model must
// reply with a JSON object carrying exactly the four Content fields.
func (c *OpenRouterClient) prompt() string {
	return fmt.Sprintf(`Write a concise, warm welcome email for someone who just joined the %q waitlist.

Rules:
- subject: one short subject line
- heading: short H2-style heading (plain text)
- body: exactly 2-3 sentences, friendly and professional
- End the body with: "Please do not reply to this email."
- unsubscribe_note: short sentence pointing to %s

Return ONLY valid JSON - no markdown, no code fences, no extra keys:
{
  "subject": "...",
  "heading": "...",
  "body": "...",
  "unsubscribe_note": "..."
}`, c.cfg.AppName, c.cfg.UnsubscribeURL)
}

// Generate asks the model for welcome copy and parses its JSON reply.
// The recipient address only drives logging; the prompt itself is fixed.
func (c *OpenRouterClient) Generate(ctx context.Context, recipientEmail string) (*Content, error) {
	payload := map[string]any{
		"model":       c.cfg.Model,
		"messages":    []map[string]string{{"role": "user", "content": c.prompt()}},
		"temperature": temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	slog.Debug("requesting welcome copy", "model", c.cfg.Model, "recipient", recipientEmail)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	// OpenRouter attribution headers
	req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	req.Header.Set("X-Title", c.cfg.AppName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("completion request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GenerationError{Err: fmt.Errorf("completion API returned %d: %s", resp.StatusCode, string(raw))}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to parse completion response: %w", err)}
	}
	if len(completion.Choices) == 0 {
		return nil, &GenerationError{Err: fmt.Errorf("completion response has no choices")}
	}

	text := stripFences(strings.TrimSpace(completion.Choices[0].Message.Content))

	var content Content
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("model returned invalid JSON: %w", err)}
	}
	return &content, nil
}

// stripFences unwraps a markdown code fence around the model output, dropping
// a leading "json" language tag. Unfenced output passes through unchanged.
func stripFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}
	parts := strings.Split(raw, "```")
	if len(parts) < 2 {
		return raw
	}
	inner := parts[1]
	if strings.HasPrefix(inner, "json") {
		inner = inner[len("json"):]
	}
	return strings.TrimSpace(inner)
}
