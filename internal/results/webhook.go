// Package results announces completed workouts to external systems.
package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
)

// Webhook POSTs each workout result as JSON to a configured URL.
type Webhook struct {
	url    string
	client *http.Client
}

var _ tracking.ResultNotifier = (*Webhook)(nil)

// NewWebhook creates a notifier. An empty url turns it into a no-op.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Payload is the webhook body.
type Payload struct {
	Event  string               `json:"event"`
	Result models.WorkoutResult `json:"result"`
}

// NotifyResult sends r. Non-2xx responses are errors.
func (w *Webhook) NotifyResult(ctx context.Context, r models.WorkoutResult) error {
	if w.url == "" {
		return nil
	}

	b, err := json.Marshal(Payload{Event: "workout.completed", Result: r})
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
