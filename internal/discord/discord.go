package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

const timeout = 25 * time.Second

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 4 << 10

// DeliveryError is returned when the webhook did not accept a message
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("discord webhook error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("discord webhook error: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Client posts messages to a single Discord webhook
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient creates a new webhook client
func NewClient(webhookURL string) (*Client, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SetTimeout overrides the delivery timeout
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// Execute posts params to the webhook. Any non-2xx response is a *DeliveryError.
func (c *Client) Execute(ctx context.Context, params *discordgo.WebhookParams) error {
	if params == nil || (params.Content == "" && len(params.Embeds) == 0) {
		return fmt.Errorf("message content or embeds are required")
	}

	jsonData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}
