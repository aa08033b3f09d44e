package cli

import (
	"fmt"
	"regexp"
	"strings"

	"atscheck/internal/errors"

	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <knockout-id> <yes|no|clear>",
	Short: "Record whether you meet a knockout requirement",
	Long: `Record your answer to a knockout requirement. Answers are stored by the
knockout id shown by "atscheck knockouts" and "atscheck analyze", and are
re-applied to every later analysis of the same job description.

The id may be abbreviated to any unique prefix. With --job the prefix is
resolved against the requirements in that job description, otherwise against
the ids already stored.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfirm,
}

var (
	confirmJob    string
	confirmResume string
)

var knockoutIDPattern = regexp.MustCompile(`^ko-[0-9a-f]{16}$`)

func init() {
	confirmCmd.Flags().StringVarP(&confirmJob, "job", "j", "", "Job description file used to resolve the knockout id")
	confirmCmd.Flags().StringVarP(&confirmResume, "resume", "r", "", "Resume file, used with --job")
}

// candidate is a knockout id the user may be referring to.
type candidate struct {
	id    string
	label string
}

func runConfirm(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	answer := strings.ToLower(strings.TrimSpace(args[1]))
	met, reset, err := parseAnswer(answer)
	if err != nil {
		return err
	}

	runner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var candidates []candidate
	if confirmJob != "" {
		report, err := loadKnockouts(runner, confirmResume, confirmJob)
		if err != nil {
			return err
		}
		for _, item := range report.Items {
			candidates = append(candidates, candidate{id: item.ID, label: item.Label})
		}
	} else {
		stored, err := runner.Store.Load()
		if err != nil {
			return err
		}
		for id, a := range stored {
			candidates = append(candidates, candidate{id: id, label: a.Label})
		}
	}

	target, err := resolveKnockoutID(args[0], candidates, confirmJob == "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reset {
		removed, err := runner.Store.Clear(target.id)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(out, "No stored answer for %s\n", target.id)
			return nil
		}
		fmt.Fprintf(out, "Cleared answer for %s\n", target.id)
		return nil
	}

	if err := runner.Store.Set(target.id, met, target.label); err != nil {
		return err
	}
	logger.Info("Knockout confirmation stored", "id", target.id, "met", met, "file", runner.Store.Path())

	verdict := "not met"
	if met {
		verdict = "met"
	}
	if target.label != "" {
		fmt.Fprintf(out, "%s (%s): %s\n", target.id, target.label, verdict)
	} else {
		fmt.Fprintf(out, "%s: %s\n", target.id, verdict)
	}
	return nil
}

func parseAnswer(answer string) (met, reset bool, err error) {
	switch answer {
	case "yes", "y", "true", "met":
		return true, false, nil
	case "no", "n", "false", "unmet":
		return false, false, nil
	case "clear", "unset", "reset":
		return false, true, nil
	}
	return false, false, errors.NewInvalidInputError("answer",
		fmt.Sprintf("unknown answer '%s': use yes, no or clear", answer))
}

// resolveKnockoutID matches ref against candidates by exact id or unique
// prefix. When allowUnknown is set a well-formed id with no candidate is
// accepted as is.
func resolveKnockoutID(ref string, candidates []candidate, allowUnknown bool) (candidate, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return candidate{}, errors.NewInvalidInputError("id", "knockout id is required")
	}
	if !strings.HasPrefix(ref, "ko-") {
		ref = "ko-" + ref
	}

	var matches []candidate
	for _, c := range candidates {
		if c.id == ref {
			return c, nil
		}
		if strings.HasPrefix(c.id, ref) {
			matches = append(matches, c)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.id
		}
		return candidate{}, errors.NewInvalidInputError("id",
			fmt.Sprintf("knockout id '%s' is ambiguous: %s", ref, strings.Join(ids, ", ")))
	case allowUnknown && knockoutIDPattern.MatchString(ref):
		return candidate{id: ref}, nil
	}
	return candidate{}, errors.NewInvalidInputError("id", fmt.Sprintf("no knockout matches '%s'", ref))
}
