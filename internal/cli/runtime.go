package cli

import (
	"context"
	"fmt"
	"time"

	"atscheck/internal/common"
	"atscheck/internal/config"
	"atscheck/internal/confirmations"
	"atscheck/internal/errors"
	"atscheck/internal/ingest"
	"atscheck/internal/observability"
	"atscheck/internal/semantic"

	"github.com/spf13/cobra"
)

const telemetryFlushTimeout = 5 * time.Second

// newRunner builds the shared analysis collaborators from configuration. The
// returned cleanup closes the semantic provider and flushes telemetry.
func newRunner(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*common.Runner, func(), error) {
	metrics, err := observability.NewManager(observability.SettingsFrom(cfg, Version), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	semanticCfg := cfg.GetSemanticConfig()
	runner := &common.Runner{
		Reader:         ingest.NewReader(cfg.App.MaxFileSize, logger),
		Store:          confirmations.NewStore(cfg.Analysis.ConfirmationsFile, logger),
		Matcher:        semantic.Disabled{},
		SemanticConfig: semantic.ConfigFrom(semanticCfg),
		Metrics:        metrics,
		Logger:         logger,
	}

	var service *semantic.Service
	if semanticCfg.Enabled {
		service, err = semantic.NewService(ctx, &semanticCfg, logger)
		if err != nil {
			_ = metrics.Shutdown(ctx)
			return nil, nil, fmt.Errorf("failed to create semantic service: %w", err)
		}
		runner.Matcher = service.WithObserver(metrics.SemanticObserver())
	}

	cleanup := func() {
		if service != nil {
			if err := service.Close(); err != nil {
				logger.LogError(err, "Failed to close semantic provider")
			}
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := metrics.Shutdown(flushCtx); err != nil {
			logger.LogError(err, "Failed to flush telemetry")
		}
	}
	return runner, cleanup, nil
}

// addOutputFlags registers --output and --format on cmd.
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		formats := getConfigFromContext(cmd.Context()).App.SupportedFormats
		if len(formats) == 0 {
			formats = common.NewOutputHandler(getLoggerFromContext(cmd.Context())).GetSupportedFormats()
		}
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat returns a PreRunE applying the default format and
// validating it against the supported formats.
func resolveOutputFormat(cc *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveFormat(cc.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		cc.OutputFormat = format
		return nil
	}
}
