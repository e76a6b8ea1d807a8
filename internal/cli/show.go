package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abreit/rethinkdb/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	All bool // show every stored version
}

// ShowResult holds the catalog records for one query name.
type ShowResult struct {
	Name     string         `json:"name"`
	Versions []store.Record `json:"versions"`
}

// RenderText prints each version with its wire form.
func (r *ShowResult) RenderText(w io.Writer) {
	for _, rec := range r.Versions {
		fmt.Fprintf(w, "%s (seq %d)\n", rec.Name, rec.Seq)
		fmt.Fprintf(w, "  id:      %s\n", rec.ID)
		fmt.Fprintf(w, "  kind:    %s\n", rec.RootKind)
		fmt.Fprintf(w, "  hash:    %s\n", rec.Hash)
		fmt.Fprintf(w, "  version: builder %s, wire %s\n", rec.BuilderVersion, rec.WireVersion)
		fmt.Fprintf(w, "  wire:    %s\n", rec.Wire)
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <name>",
		Short:         "Show a stored query",
		Long:          "Show the latest stored version of a query, or every version with --all.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "show every stored version")

	return cmd
}

func runShow(opts *ShowOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger()))
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, fmt.Sprintf("opening catalog: %v", err), nil)
	}
	defer st.Close()

	result := &ShowResult{Name: name}
	if opts.All {
		result.Versions, err = st.QueryVersions(cmd.Context(), name)
		if err == nil && len(result.Versions) == 0 {
			err = sql.ErrNoRows
		}
	} else {
		var rec store.Record
		rec, err = st.LatestQuery(cmd.Context(), name)
		result.Versions = []store.Record{rec}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ErrCodeNoQuery, fmt.Sprintf("query %q not found in %s", name, opts.Database), nil)
	}
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, err.Error(), nil)
	}
	return formatter.Success(result)
}
