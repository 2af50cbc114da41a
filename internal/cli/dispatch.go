package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/statebind/internal/actions"
	"github.com/roach88/statebind/internal/ir"
)

// DispatchOptions holds flags for the dispatch command.
type DispatchOptions struct {
	*RootOptions
	DBPath string
	Args   string
}

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DispatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dispatch <defs-dir> <key.action>",
		Short: "Dispatch a bound action into the journal",
		Long: `Dispatch one bound action and append it to the action journal.

The target names a definition key and one of its actions, for example
"cart.addItem". Arguments are given positionally as a JSON array and are
checked against the declared arg types before anything is written.`,
		Example: `  statebind dispatch ./defs cart.addItem --args '["widget", 2]'
  statebind dispatch ./defs cart.clear --db ./journal.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "journal database path (default journal.path)")
	cmd.Flags().StringVar(&opts.Args, "args", "[]", "action arguments as a JSON array")

	return cmd
}

func runDispatch(opts *DispatchOptions, defsDir, target string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	key, name, ok := strings.Cut(target, ".")
	if !ok || key == "" || name == "" {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("invalid action %q, expected key.action", target), nil)
	}

	args, err := parseActionArgs(opts.Args)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid --args", err)
	}

	loadResult, loadErrors := LoadDefinitions(defsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := firstLoadError(loadErrors)
		return commandError(formatter, code, message, nil)
	}

	dbPath := opts.journalPath(opts.DBPath)
	formatter.VerboseLog("Opening journal %s", dbPath)

	st, err := openJournal(dbPath)
	if err != nil {
		return commandError(formatter, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	rt, err := buildRuntime(loadResult, st)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "failed to register definitions", err)
	}

	fn, ok := rt.actions.Lookup(key, name)
	if !ok {
		return commandError(formatter, ErrCodeBadInput,
			fmt.Sprintf("unknown action %q (definitions: %s)", target, strings.Join(rt.actions.Keys(), ", ")), nil)
	}

	if err := fn(args...); err != nil {
		if actions.IsArgError(err) {
			return commandError(formatter, ErrCodeBadInput, "invalid action arguments", err)
		}
		return commandError(formatter, ErrCodeJournal, "failed to dispatch", err)
	}

	records, err := st.SessionRecords(cmd.Context(), st.SessionID())
	if err != nil || len(records) == 0 {
		return commandError(formatter, ErrCodeJournal, "failed to read back dispatched record", err)
	}
	record := records[len(records)-1]

	return formatter.Emit(record, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "dispatched %s seq=%d id=%s\n", record.Type, record.Seq, record.ID)
		return err
	})
}

// parseActionArgs decodes a JSON array into positional action arguments.
func parseActionArgs(raw string) ([]ir.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := ir.ParseJSON([]byte(raw))
	if err != nil {
		return nil, err
	}
	list, ok := value.(ir.List)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %s", ir.Kind(value))
	}
	return list, nil
}
