package common

import (
	"context"
	"maps"
	"time"

	"atscheck/internal/confirmations"
	"atscheck/internal/errors"
	"atscheck/internal/ingest"
	"atscheck/internal/observability"
	"atscheck/internal/pipeline"
	"atscheck/internal/semantic"
)

// Runner carries the collaborators shared by the analysis entry points.
type Runner struct {
	Reader *ingest.Reader
	// Store supplies saved knockout answers. Nil means no stored answers.
	Store          *confirmations.Store
	Matcher        semantic.Matcher
	SemanticConfig semantic.Config
	Metrics        *observability.Manager
	Logger         *errors.Logger
	// AsOf pins "present" for date ranges. Zero means now.
	AsOf time.Time
}

// LoadInput reads the resume and the optional job description and attaches
// stored answers.
func (r *Runner) LoadInput(resumeFile, jobFile string) (pipeline.Input, error) {
	var in pipeline.Input

	artifact, err := r.Reader.LoadResume(resumeFile)
	if err != nil {
		return in, err
	}
	in.Artifact = artifact

	if jobFile != "" {
		if in.JobText, err = r.Reader.LoadJob(jobFile); err != nil {
			return in, err
		}
	}

	if in.Confirmations, err = r.Answers(); err != nil {
		return in, err
	}
	return in, nil
}

// Answers returns the stored knockout answers with overrides applied on top.
// It returns nil when there is neither a store nor an override.
func (r *Runner) Answers(overrides ...map[string]bool) (map[string]bool, error) {
	var answers map[string]bool
	if r.Store != nil {
		stored, err := r.Store.Answers()
		if err != nil {
			return nil, err
		}
		answers = stored
	}
	for _, o := range overrides {
		if len(o) == 0 {
			continue
		}
		if answers == nil {
			answers = make(map[string]bool, len(o))
		}
		maps.Copy(answers, o)
	}
	return answers, nil
}

// Analyze runs the pipeline and records the run. source names the caller
// for metrics.
func (r *Runner) Analyze(ctx context.Context, source string, in pipeline.Input) (*pipeline.Report, error) {
	start := time.Now()
	report, err := pipeline.Run(ctx, in, pipeline.Options{
		Matcher:        r.Matcher,
		SemanticConfig: r.SemanticConfig,
		AsOf:           r.AsOf,
		Logger:         r.Logger,
	})
	r.Metrics.RecordAnalysis(ctx, source, report, time.Since(start), err)
	return report, err
}

// Knockouts runs knockout detection on its own, applying stored answers and
// then overrides.
func (r *Runner) Knockouts(resumeText, jobText string, overrides map[string]bool) (pipeline.KnockoutReport, error) {
	answers, err := r.Answers(overrides)
	if err != nil {
		return pipeline.KnockoutReport{}, err
	}
	asOf := r.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return pipeline.Knockouts(resumeText, jobText, answers, asOf)
}

// OperationFunc produces the value a command prints.
type OperationFunc[Output any] func(context.Context) (Output, error)

// RunCommand runs op and hands its result to out.
func RunCommand[Output any](
	ctx context.Context,
	out *OutputHandler,
	cmdConfig CommandConfig,
	op OperationFunc[Output],
) error {
	result, err := op(ctx)
	if err != nil {
		return err
	}
	out.logger.Debug("Command finished", "format", cmdConfig.OutputFormat, "output_file", cmdConfig.OutputFile)
	return out.HandleOutput(result, cmdConfig)
}
