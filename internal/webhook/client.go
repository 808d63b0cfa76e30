package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/zinc-sig/rere/internal/output"
)

// RunIDHeader carries the report's run ID so receivers can drop duplicate deliveries.
const RunIDHeader = "X-Rere-Run-Id"

const userAgent = "rere-webhook/1"

// Client delivers run reports to a webhook endpoint
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	verbose     bool
	log         io.Writer
}

// NewClient creates a new webhook client
func NewClient(config *Config, retryConfig *RetryConfig, verbose bool) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Per-request timeout
		},
		config:      config,
		retryConfig: retryConfig,
		verbose:     verbose,
		log:         os.Stderr,
	}
}

// Send delivers the report, retrying transient failures with backoff
func (c *Client) Send(ctx context.Context, report *output.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	// The whole delivery, retries included, shares one deadline
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt, c.retryConfig)
			c.logf("Retry %d/%d after %v", attempt, c.retryConfig.MaxRetries, delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		statusCode, err := c.sendRequest(ctx, report.RunID, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			c.logf("Delivered run %s (status: %d)", report.RunID, statusCode)
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, statusCode)
		}

		if statusCode > 0 && !isRetryableStatus(statusCode) {
			c.logf("Non-retryable status %d, giving up", statusCode)
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *Client) sendRequest(ctx context.Context, runID string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RunIDHeader, runID)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case "api-key":
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func (c *Client) logf(format string, args ...any) {
	if !c.verbose {
		return
	}
	fmt.Fprintf(c.log, "[WEBHOOK] "+format+"\n", args...)
}
