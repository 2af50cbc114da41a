package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/statebind/internal/inject"
	"github.com/roach88/statebind/internal/ir"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	StateFile string
}

// ResolveResult is the merged view for a set of selector keys.
type ResolveResult struct {
	Values  ir.Object           `json:"values"`
	Actions map[string][]string `json:"actions"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <defs-dir> <key>...",
		Short: "Resolve selector keys against a state document",
		Long: `Resolve selector keys against application state.

A key "X" reads the top-level state entry X. A key "X.Y" runs the
registered selector Y in namespace X and merges its output fields.
Later keys overwrite earlier ones on conflicting fields. Selectors that
are missing or fail are logged and contribute nothing.

State is read from a JSON or YAML file.`,
		Example: `  statebind resolve ./defs cart.summary user --state state.json
  statebind resolve ./defs cart.summary --state state.yaml --format json`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.StateFile, "state", "", "state file (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func runResolve(opts *ResolveOptions, defsDir string, keys []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadDefinitions(defsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := firstLoadError(loadErrors)
		return commandError(formatter, code, message, nil)
	}

	state, err := LoadState(opts.StateFile)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid state", err)
	}

	rt, err := buildRuntime(loadResult, noDispatchStore{})
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "failed to register definitions", err)
	}
	formatter.VerboseLog("Registered selectors: %s", strings.Join(rt.selectors.Refs(), ", "))

	injector := inject.New(rt.registry, inject.WithLogger(opts.Logger(cmd.ErrOrStderr())))
	resolver, err := injector.Inject(keys...)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid selector key", err)
	}

	props := resolver(state, nil, rt.actions)
	formatter.VerboseLog("Resolved %d key(s) into %d field(s)", len(keys), len(props.Values))

	result := ResolveResult{
		Values:  props.Values,
		Actions: actionNames(props.Actions),
	}

	return formatter.Emit(result, func(w io.Writer) error {
		return writeResolveText(w, result)
	})
}

func actionNames(table ir.ActionTable) map[string][]string {
	names := make(map[string][]string, len(table))
	for key, group := range table {
		names[key] = group.Names()
	}
	return names
}

func writeResolveText(w io.Writer, result ResolveResult) error {
	fmt.Fprintln(w, "values:")
	for _, field := range result.Values.SortedKeys() {
		encoded, err := ir.MarshalValue(result.Values[field])
		if err != nil {
			return fmt.Errorf("encode value %q: %w", field, err)
		}
		fmt.Fprintf(w, "  %s = %s\n", field, encoded)
	}

	keys := make([]string, 0, len(result.Actions))
	for key := range result.Actions {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	fmt.Fprintln(w, "actions:")
	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %v\n", key, result.Actions[key])
	}
	return nil
}
