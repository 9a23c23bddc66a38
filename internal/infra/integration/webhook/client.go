package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/resilience"
)

const (
	service = "webhook"
	// SentID is the external id recorded for webhook exports.
	SentID = "webhook-sent"
)

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Send POSTs the lead as JSON to url.
func (c *Client) Send(ctx context.Context, url string, l *entity.Lead) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("webhook: failed to encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: invalid url: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resilience.FromStatus(service, resp.StatusCode, body)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
