package cli

import (
	"context"
	"fmt"

	"atscheck/internal/common"
	"atscheck/internal/ingest"
	"atscheck/internal/keywords"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:     "keywords <job-description-file>",
	Short:   "Extract critical and optional keywords from a job description",
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&keywordsConfig),
	RunE:    runKeywords,
}

var keywordsConfig common.CommandConfig

func init() {
	addOutputFlags(keywordsCmd, &keywordsConfig)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	reader := ingest.NewReader(cfg.App.MaxFileSize, logger)

	err := common.RunCommand(cmd.Context(), common.NewOutputHandler(logger), keywordsConfig,
		func(ctx context.Context) (keywords.KeywordSet, error) {
			jobText, err := reader.LoadJob(args[0])
			if err != nil {
				return keywords.KeywordSet{}, err
			}
			ks := keywords.Extract(jobText)
			logger.Debug("Keywords extracted", "critical", len(ks.Critical), "optional", len(ks.Optional))
			return ks, nil
		})
	if err != nil {
		return fmt.Errorf("failed to extract keywords: %w", err)
	}
	return nil
}
