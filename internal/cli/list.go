package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abreit/rethinkdb/internal/store"
)

// ListResult holds the latest version of every stored query.
type ListResult struct {
	Queries []store.Record `json:"queries"`
}

// RenderText prints a table of names, kinds, sequence numbers and hashes.
func (r *ListResult) RenderText(w io.Writer) {
	if len(r.Queries) == 0 {
		fmt.Fprintln(w, "No queries stored.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSEQ\tHASH")
	for _, rec := range r.Queries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rec.Name, rec.RootKind, rec.Seq, rec.Hash[:12])
	}
	tw.Flush()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored queries",
		Long:          "List the latest version of every query in the catalog, oldest first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger()))
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, fmt.Sprintf("opening catalog: %v", err), nil)
	}
	defer st.Close()

	records, err := st.ListQueries(cmd.Context())
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, err.Error(), nil)
	}
	return formatter.Success(&ListResult{Queries: records})
}
