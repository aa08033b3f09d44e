package cli

import (
	"context"
	"fmt"

	"atscheck/internal/common"
	"atscheck/internal/pipeline"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file> [job-description-file]",
	Short: "Analyze a resume, optionally against a job description",
	Long: `Analyze a resume for ATS compatibility. Without a job description only
parse health is scored. With one, the report adds:
- Keyword extraction and coverage
- Knockout requirements checked against the resume and stored confirmations
- Recruiter search visibility
- A semantic match when semantic matching is enabled in the configuration

The resume may be plain text, markdown, or a JSON artifact produced by an
external extractor. The job description may be text, markdown or HTML.`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: resolveOutputFormat(&analyzeConfig),
	RunE:    runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context()).With("run_id", uuid.NewString())

	runner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	jobFile := ""
	if len(args) == 2 {
		jobFile = args[1]
	}

	logger.Info("Starting resume analysis",
		"resume_file", args[0],
		"job_file", jobFile,
		"semantic_enabled", cfg.Semantic.Enabled,
		"output_format", analyzeConfig.OutputFormat)

	err = common.RunCommand(cmd.Context(), common.NewOutputHandler(logger), analyzeConfig,
		func(ctx context.Context) (*pipeline.Report, error) {
			in, err := runner.LoadInput(args[0], jobFile)
			if err != nil {
				return nil, err
			}
			return runner.Analyze(ctx, "cli", in)
		})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
