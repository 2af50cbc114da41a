package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	DBPath  string
	Session string
	Type    string
	ID      string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List journaled actions",
		Long: `List the actions recorded in the journal in sequence order.

Filter to one session with --session or to one action type with --type,
or show a single record by its content ID with --id.`,
		Example: `  statebind log --db ./journal.db
  statebind log --type Cart.addItem --format json
  statebind log --id 3f1c...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "journal database path (default journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show records from this session")
	cmd.Flags().StringVar(&opts.Type, "type", "", "only show records of this action type")
	cmd.Flags().StringVar(&opts.ID, "id", "", "only show the record with this ID")
	cmd.MarkFlagsMutuallyExclusive("session", "type", "id")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dbPath := opts.journalPath(opts.DBPath)
	st, err := openJournal(dbPath)
	if err != nil {
		return commandError(formatter, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var records []store.Record
	switch {
	case opts.ID != "":
		var rec store.Record
		rec, err = st.ReadRecord(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("record %q not found", opts.ID), nil)
		}
		records = []store.Record{rec}
	case opts.Session != "":
		records, err = st.SessionRecords(ctx, opts.Session)
	case opts.Type != "":
		records, err = st.RecordsOfType(ctx, ir.ActionRef(opts.Type))
	default:
		records, err = st.Records(ctx)
	}
	if err != nil {
		return commandError(formatter, ErrCodeJournal, "failed to read journal", err)
	}

	formatter.VerboseLog("Read %d record(s) from %s", len(records), dbPath)

	return formatter.Emit(records, func(w io.Writer) error {
		for _, r := range records {
			payload, err := ir.MarshalValue(r.Payload)
			if err != nil {
				return fmt.Errorf("encode payload of record %d: %w", r.Seq, err)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.Seq, r.Type, payload)
		}
		return nil
	})
}
