package cli

import (
	"fmt"
	"io"
	"time"

	"atscheck/internal/common"
	"atscheck/internal/watch"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <resume-file> [job-description-file]",
	Short: "Re-run the analysis whenever the resume or job description changes",
	Long: `Analyze a resume and keep watching its files. Every save of the resume, the
job description or the confirmations file re-renders the report. Stop with
Ctrl+C.`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: resolveOutputFormat(&watchConfig),
	RunE:    runWatch,
}

var watchConfig common.CommandConfig

func init() {
	addOutputFlags(watchCmd, &watchConfig)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	runner, cleanup, err := newRunner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	resumeFile := args[0]
	jobFile := ""
	if len(args) == 2 {
		jobFile = args[1]
	}

	out := cmd.OutOrStdout()
	output := common.NewOutputHandler(logger).WithWriter(out)
	analyze := func(r common.Runner) error {
		in, err := r.LoadInput(resumeFile, jobFile)
		if err != nil {
			return err
		}
		report, err := r.Analyze(ctx, "watch", in)
		if err != nil {
			return err
		}
		if watchConfig.OutputFile == "" {
			writeWatchBanner(out)
		}
		return output.HandleOutput(report, watchConfig)
	}
	render := func() {
		r := *runner
		r.Logger = logger.With("run_id", uuid.NewString())
		if err := analyze(r); err != nil {
			// Keep watching: the next save may fix the input.
			r.Logger.LogError(err, "Analysis failed")
			fmt.Fprintf(cmd.ErrOrStderr(), "analysis failed: %v\n", err)
		}
	}

	files := []string{resumeFile, jobFile, runner.Store.Path()}
	w, err := watch.New(files, cfg.Analysis.Watch.Debounce, func(changed []string) {
		render()
	}, logger)
	if err != nil {
		return err
	}

	render()
	return w.Run(ctx)
}

func writeWatchBanner(out io.Writer) {
	fmt.Fprintf(out, "\n=== atscheck %s ===\n", time.Now().Format(time.TimeOnly))
}
