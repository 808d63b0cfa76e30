package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/rere/cmd/config"
	"github.com/zinc-sig/rere/cmd/helpers"
	"github.com/zinc-sig/rere/internal/configsource"
	"github.com/zinc-sig/rere/internal/output"
	"github.com/zinc-sig/rere/internal/webhook"
)

// ContextEnvPrefix names the environment variables read for report context
const ContextEnvPrefix = "RERE_CONTEXT"

// runOptions holds the flags record and replay have in common.
type runOptions struct {
	Common  config.CommonFlags
	Context config.ContextConfig
	Webhook config.WebhookConfig

	webhookConfig *webhook.Config
	retryConfig   *webhook.RetryConfig
}

func (o *runOptions) setupFlags(cmd *cobra.Command) {
	helpers.SetupCommonFlags(cmd, &o.Common)
	helpers.SetupContextFlags(cmd, &o.Context)
	helpers.SetupWebhookFlags(cmd, &o.Webhook)
}

// parse validates flags before any command runs.
func (o *runOptions) parse() error {
	timeout, err := helpers.ParseTimeout(o.Common.TimeoutStr)
	if err != nil {
		return err
	}
	o.Common.Timeout = timeout

	o.webhookConfig, o.retryConfig, err = helpers.ParseWebhookConfigToInternal(&o.Webhook)
	return err
}

func (o *runOptions) buildContext() (any, error) {
	return configsource.Build(ContextEnvPrefix, o.Context.JSON, o.Context.KV, o.Context.File)
}

// finish stamps the report, delivers it and prints it when --json is set.
func (o *runOptions) finish(ctx context.Context, cmd *cobra.Command, report *output.Report, start time.Time) error {
	report.SetDuration(time.Since(start))
	report.SetTimeout(o.Common.Timeout)

	helpers.DeliverReport(ctx, report, o.webhookConfig, o.retryConfig, o.Common.Verbose, cmd.ErrOrStderr())

	if o.Common.JSON {
		return helpers.OutputJSON(cmd.OutOrStdout(), report)
	}
	return nil
}
