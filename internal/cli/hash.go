package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abreit/rethinkdb/internal/term"
)

// QueryHash pairs a query name with its content hash.
type QueryHash struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// HashResult is the output of the hash command.
type HashResult struct {
	Hashes []QueryHash `json:"hashes"`
}

// RenderText prints "hash  name" lines, like sha256sum.
func (r *HashResult) RenderText(w io.Writer) {
	for _, h := range r.Hashes {
		fmt.Fprintf(w, "%s  %s\n", h.Hash, h.Name)
	}
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <path>",
		Short: "Print content hashes of compiled queries",
		Long: `Compile query documents and print the content hash of each query.

Two queries with the same hash have byte-identical canonical wire forms.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, args[0], cmd)
		},
	}
}

func runHash(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	queries, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	result := &HashResult{Hashes: make([]QueryHash, 0, len(queries))}
	for _, q := range queries {
		hash, err := term.Hash(q.Root)
		if err != nil {
			return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("hashing %s: %v", q.Name, err), nil)
		}
		result.Hashes = append(result.Hashes, QueryHash{Name: q.Name, Hash: hash})
	}
	return formatter.Success(result)
}
