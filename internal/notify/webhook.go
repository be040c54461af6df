package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	webhookTimeout  = 15 * time.Second
	webhookAttempts = 3
	backoffBase     = 500 * time.Millisecond
)

// WebhookClient posts formatted messages to a Slack-compatible incoming
// webhook. Posts are rate limited to one per second so a large batch does not
// trip the chat API's flood control.
type WebhookClient struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:     url,
		http:    &http.Client{Timeout: webhookTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Send posts one message. Transport failures and throttling responses are
// retried with doubling backoff; any other non-2xx response fails
// immediately since resending the same payload cannot fix it.
func (c *WebhookClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(map[string]any{
		"text":   msg.FallbackText,
		"blocks": msg.Blocks,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < webhookAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffBase << (attempt - 1)):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.post(ctx, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", webhookAttempts, lastErr)
}

func (c *WebhookClient) post(ctx context.Context, payload []byte) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("webhook status=%d body=%s", resp.StatusCode, string(body))
	default:
		return false, fmt.Errorf("webhook rejected payload status=%d body=%s", resp.StatusCode, string(body))
	}
}
