package facematch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/eventpix/eventpix/internal/pkg/env"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body, both on
// outbound submissions and on the matcher's inbound result callbacks.
const SignatureHeader = "X-Facematch-Signature"

const submitAttempts = 3

// Trigger is the compute port: fire-and-forget submission of a matching run.
// Completion is reported asynchronously through the inbound webhook.
type Trigger interface {
	Submit(ctx context.Context, eventUUID, taskUUID string) error
}

type submission struct {
	EventUUID string `json:"event_uuid"`
	TaskUUID  string `json:"task_uuid"`
}

// httpTrigger submits matching runs to the external matcher over HTTP
type httpTrigger struct {
	endpoint string
	secret   string
	client   *http.Client
}

// NewHTTPTrigger creates the HTTP compute trigger from the environment
// (FACEMATCH_ENDPOINT, FACEMATCH_WEBHOOK_SECRET).
func NewHTTPTrigger() Trigger {
	return &httpTrigger{
		endpoint: env.GetEnv("FACEMATCH_ENDPOINT", ""),
		secret:   env.GetEnv("FACEMATCH_WEBHOOK_SECRET", ""),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Submit posts the (event, task) pair to the matcher, signed with the shared
// secret. Transient failures are retried with backoff; a final failure
// surfaces to the caller, which marks the task failed.
func (t *httpTrigger) Submit(ctx context.Context, eventUUID, taskUUID string) error {
	if t.endpoint == "" {
		return fmt.Errorf("facematch endpoint not configured")
	}

	body, err := json.Marshal(submission{EventUUID: eventUUID, TaskUUID: taskUUID})
	if err != nil {
		return err
	}

	var lastErr error
	delay := 500 * time.Millisecond
	for i := 0; i < submitAttempts; i++ {
		lastErr = t.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if i == submitAttempts-1 {
			break
		}
		log.Warnf("[Facematch] submit attempt %d/%d failed: %v", i+1, submitAttempts, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("facematch submission failed after %d attempts: %w", submitAttempts, lastErr)
}

func (t *httpTrigger) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(body, t.secret))

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("matcher returned status %d", resp.StatusCode)
	}
	return nil
}
