package timesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attendance.service/internal/ports/messaging"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client delivers closed days to the downstream timesheet system.
type Client interface {
	RecordDay(ctx context.Context, event messaging.DayClosedEvent) error
}

// HTTPClient posts DayClosedEvent payloads as JSON.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// RecordDay sends the closed day to the timesheet API.
func (c *HTTPClient) RecordDay(ctx context.Context, event messaging.DayClosedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal timesheet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create timesheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call timesheet api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("timesheet api returned non-successful status code: %d", resp.StatusCode)
	}

	log.Ctx(ctx).Info().Str("user_id", event.UserID).Str("date", event.Date).Msg("Recorded day in timesheet system")
	return nil
}
