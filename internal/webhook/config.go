package webhook

import "time"

// Config describes where run reports are delivered
type Config struct {
	URL       string
	Method    string            // default: POST
	Headers   map[string]string // extra request headers
	Timeout   time.Duration     // covers every attempt, retries included
	AuthType  string            // none, bearer, api-key
	AuthToken string
}

// RetryConfig controls redelivery of a report after a transient failure
type RetryConfig struct {
	MaxRetries   int           // retries after the first attempt
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration
	Multiplier   float64 // growth factor between retries
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}
