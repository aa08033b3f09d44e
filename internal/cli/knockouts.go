package cli

import (
	"context"
	"fmt"

	"atscheck/internal/common"
	"atscheck/internal/pipeline"

	"github.com/spf13/cobra"
)

var knockoutsCmd = &cobra.Command{
	Use:   "knockouts <job-description-file>",
	Short: "List knockout requirements and the resulting risk",
	Long: `Detect knockout requirements in a job description (clearance, work
authorization, degree, certification, minimum experience) and aggregate the
risk. With --resume the requirements are checked against the resume. Stored
confirmations always apply; record them with "atscheck confirm".`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&knockoutsConfig),
	RunE:    runKnockouts,
}

var (
	knockoutsConfig common.CommandConfig
	knockoutsResume string
)

func init() {
	addOutputFlags(knockoutsCmd, &knockoutsConfig)
	knockoutsCmd.Flags().StringVarP(&knockoutsResume, "resume", "r", "", "Resume file to check the requirements against")
}

func runKnockouts(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	runner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	err = common.RunCommand(cmd.Context(), common.NewOutputHandler(logger), knockoutsConfig,
		func(ctx context.Context) (pipeline.KnockoutReport, error) {
			return loadKnockouts(runner, knockoutsResume, args[0])
		})
	if err != nil {
		return fmt.Errorf("failed to detect knockouts: %w", err)
	}
	return nil
}

// loadKnockouts reads the inputs and runs knockout detection with stored
// answers applied. resumeFile may be empty.
func loadKnockouts(runner *common.Runner, resumeFile, jobFile string) (pipeline.KnockoutReport, error) {
	jobText, err := runner.Reader.LoadJob(jobFile)
	if err != nil {
		return pipeline.KnockoutReport{}, err
	}
	resumeText := ""
	if resumeFile != "" {
		artifact, err := runner.Reader.LoadResume(resumeFile)
		if err != nil {
			return pipeline.KnockoutReport{}, err
		}
		resumeText = artifact.Text
	}
	return runner.Knockouts(resumeText, jobText, nil)
}
