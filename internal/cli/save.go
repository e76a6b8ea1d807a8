package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abreit/rethinkdb/internal/store"
)

// SaveResult lists the catalog records written by save.
type SaveResult struct {
	Database string         `json:"database"`
	Records  []store.Record `json:"records"`
}

// RenderText prints one line per saved query.
func (r *SaveResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "✓ Saved %d query(s) to %s\n\n", len(r.Records), r.Database)
	for _, rec := range r.Records {
		fmt.Fprintf(w, "  %s: seq %d %s\n", rec.Name, rec.Seq, rec.Hash)
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <path>",
		Short: "Compile queries and store them in the catalog",
		Long: `Compile query documents and store every query in the catalog database.

Saving a query whose tree is unchanged keeps the existing version.
A changed tree is stored as a new version under the same name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], cmd)
		},
	}
}

func runSave(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	queries, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger()))
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, fmt.Sprintf("opening catalog: %v", err), nil)
	}
	defer st.Close()

	result := &SaveResult{Database: opts.Database, Records: make([]store.Record, 0, len(queries))}
	for _, q := range queries {
		rec, err := st.SaveQuery(cmd.Context(), q.Name, q.Root)
		if err != nil {
			var invalid *store.InvalidTermError
			if errors.As(err, &invalid) {
				return formatter.Fail(ErrCodeInvalidTerm, fmt.Sprintf("query %q: %v", q.Name, err), invalid.Problems)
			}
			return formatter.Fail(ErrCodeDatabase, err.Error(), nil)
		}
		formatter.VerboseLog("Saved %s as seq %d", rec.Name, rec.Seq)
		result.Records = append(result.Records, rec)
	}
	return formatter.Success(result)
}
