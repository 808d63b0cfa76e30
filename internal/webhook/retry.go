package webhook

import (
	"math"
	"math/rand"
	"net/http"
	"time"
)

// jitterFraction spreads retries of concurrent rere runs by ±10%.
const jitterFraction = 0.1

// calculateBackoff returns initialDelay * multiplier^(attempt-1), capped at
// MaxDelay and jittered. Attempt 0 has no delay.
func calculateBackoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(config.MaxDelay))

	jitter := delay * jitterFraction
	delay += (rand.Float64()*2 - 1) * jitter

	return time.Duration(delay)
}

// isRetryableStatus reports whether a failed delivery is worth repeating
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
