package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/go-resty/resty/v2"
)

// DefaultWebhookTimeout bounds a single webhook POST.
const DefaultWebhookTimeout = 500 * time.Millisecond

// Webhook POSTs each submission's wire shape to an HTTP endpoint. A non-2xx
// response is a delivery failure.
type Webhook struct {
	url    string
	client *resty.Client
}

// NewWebhook creates a webhook sink for url. A non-positive timeout selects
// DefaultWebhookTimeout. Retries are attempted on transport errors and 5xx
// responses only.
func NewWebhook(url string, timeout time.Duration, retries int) *Webhook {
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(50*time.Millisecond).
		SetRetryMaxWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("Webhook sink: %s %s failed: %v", req.Method, req.URL, err)
	})

	return &Webhook{url: url, client: client}
}

// Handle posts the submission and fails on transport errors or non-2xx
// status codes.
func (w *Webhook) Handle(ctx context.Context, s audit.Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Submission-ID", s.ID).
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post to %s failed: %w", w.url, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook %s returned %s", w.url, resp.Status())
	}

	logging.Debug("Webhook sink: Delivered submission %s (%d)", s.ID, resp.StatusCode())
	return nil
}
