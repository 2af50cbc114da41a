package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statebind/internal/harness"
)

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult summarizes a test run.
type TestResult struct {
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenario.yaml>...",
		Short: "Run scenario tests",
		Long: `Run YAML scenario tests against compiled definitions.

Each scenario dispatches its flow into a fresh in-memory journal,
resolves its views against the scenario state and checks its
assertions. The command exits 1 if any scenario fails.`,
		Example:       `  statebind test ./scenarios/cart.yaml ./scenarios/user.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runTest(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	h := harness.New(definitionsLoader, harness.WithLogger(opts.Logger(cmd.ErrOrStderr())))

	summary := TestResult{Scenarios: []ScenarioResult{}}
	for _, file := range files {
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("invalid scenario %s", file), err)
		}

		formatter.VerboseLog("Running %s (%s)", scenario.Name, file)
		result, err := h.Run(cmd.Context(), scenario)
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("scenario %s could not run", scenario.Name), err)
		}

		summary.Scenarios = append(summary.Scenarios, ScenarioResult{
			File:   file,
			Name:   scenario.Name,
			Pass:   result.Pass,
			Errors: result.Errors,
		})
		if result.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if err := formatter.Emit(summary, func(w io.Writer) error {
		writeTestText(w, summary)
		return nil
	}); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}

func writeTestText(w io.Writer, summary TestResult) {
	for _, s := range summary.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "PASS %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed\n", summary.Passed, summary.Failed)
}

// definitionsLoader loads and validates a definitions directory for the
// harness. Scenarios never run against definitions that fail validate.
func definitionsLoader(dir string) (harness.Definitions, error) {
	result, errs, err := ValidateDefsDir(dir)
	if err != nil {
		return harness.Definitions{}, err
	}
	if len(errs) > 0 {
		return harness.Definitions{}, fmt.Errorf("%d validation error(s): %w", len(errs), errs[0])
	}
	return harness.Definitions{Defs: result.Defs, Selectors: result.Selectors}, nil
}
