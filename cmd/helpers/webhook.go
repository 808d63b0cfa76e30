package helpers

import (
	"fmt"
	"time"

	"github.com/zinc-sig/rere/cmd/config"
	"github.com/zinc-sig/rere/internal/configsource"
	"github.com/zinc-sig/rere/internal/webhook"
)

// WebhookEnvPrefix names the environment variables read for webhook settings
const WebhookEnvPrefix = "RERE_WEBHOOK"

// BuildWebhookConfig builds webhook configuration from all sources
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	// Precedence: env < file < json < kv < direct flags
	webhookConf, err := configsource.BuildMap(WebhookEnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Direct flags only override when moved off their defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfigToInternal converts the merged configuration into client
// settings. Both results are nil when no URL is configured.
func ParseWebhookConfigToInternal(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	url, _ := configMap["url"].(string)
	if url == "" {
		return nil, nil, nil
	}

	timeout := 30 * time.Second
	if s, ok := configMap["timeout"].(string); ok && s != "" {
		timeout, err = time.ParseDuration(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
		}
	}

	retryDelay := 1 * time.Second
	if s, ok := configMap["retry_delay"].(string); ok && s != "" {
		retryDelay, err = time.ParseDuration(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
		}
	}

	method, _ := configMap["method"].(string)
	if method == "" {
		method = "POST"
	}

	authType, _ := configMap["auth_type"].(string)
	if authType == "" {
		authType = "none"
	}
	authToken, _ := configMap["auth_token"].(string)

	// JSON numbers arrive as float64, key=value and YAML numbers as int
	maxRetries := 3
	switch r := configMap["retries"].(type) {
	case int:
		maxRetries = r
	case float64:
		maxRetries = int(r)
	}

	var headers map[string]string
	if h, ok := configMap["headers"].(map[string]any); ok {
		headers = make(map[string]string, len(h))
		for k, v := range h {
			headers[k] = fmt.Sprint(v)
		}
	}

	webhookConfig := &webhook.Config{
		URL:       url,
		Method:    method,
		Headers:   headers,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: authToken,
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhookConfig, retryConfig, nil
}
