package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/rere/internal/output"
	"github.com/zinc-sig/rere/internal/webhook"
)

// OutputJSON marshals and prints the report as a single JSON line
func OutputJSON(w io.Writer, report *output.Report) error {
	jsonOutput, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// DeliverReport sends the report to the webhook, if one is configured. A
// delivery failure is recorded on the report and logged, never returned.
func DeliverReport(ctx context.Context, report *output.Report, cfg *webhook.Config, retryCfg *webhook.RetryConfig, verbose bool, log io.Writer) {
	if cfg == nil || cfg.URL == "" {
		return
	}

	client := webhook.NewClient(cfg, retryCfg, verbose)
	if verbose {
		fmt.Fprintf(log, "[WEBHOOK] Sending to %s\n", cfg.URL)
	}

	if err := client.Send(ctx, report); err != nil {
		fmt.Fprintf(log, "[WEBHOOK] Error: %v\n", err)
		report.WebhookSent = false
		report.WebhookError = err.Error()
		return
	}
	report.WebhookSent = true
}
