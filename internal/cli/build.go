package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abreit/rethinkdb/internal/compiler"
	"github.com/abreit/rethinkdb/internal/term"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output string // output file path
	Check  string // previously built output to compare against
}

// BuiltQuery is one compiled query as printed and written by build.
type BuiltQuery struct {
	Name     string          `json:"name"`
	RootKind string          `json:"root_kind"`
	Hash     string          `json:"hash"`
	Wire     json.RawMessage `json:"wire"`
}

// BuildResult holds every query compiled from a path.
type BuildResult struct {
	WireVersion    string       `json:"wire_version"`
	BuilderVersion string       `json:"builder_version"`
	Queries        []BuiltQuery `json:"queries"`
}

// RenderText prints one line per query followed by its wire form.
func (r *BuildResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "✓ Built %d query(s)\n\n", len(r.Queries))
	for _, q := range r.Queries {
		fmt.Fprintf(w, "  %s: %s %s\n", q.Name, q.RootKind, q.Hash)
		fmt.Fprintf(w, "    %s\n", q.Wire)
	}
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Compile query documents to ReQL wire terms",
		Long: `Compile CUE or YAML query documents into ReQL term trees.

Each tree is verified and printed with its root kind, content hash,
and wire JSON. With --check, the result is compared against an
earlier --output file and the command fails if anything drifted.

Exit codes:
  0 - All queries built (and match --check)
  1 - Built output differs from --check file
  2 - Command error (invalid path, compile error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Check, "check", "", "fail if output differs from this file")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	queries, err := loadForCommand(formatter, path)
	if err != nil {
		return err
	}

	result, err := buildQueries(queries)
	if err != nil {
		var be *buildFailure
		if errors.As(err, &be) {
			return formatter.Fail(ErrCodeInvalidTerm, be.Error(), be.problems)
		}
		return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
	}
	opts.Logger().Debug("built queries", "path", path, "count", len(result.Queries))

	if opts.Output != "" {
		if err := writeBuildResult(result, opts.Output); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		formatter.VerboseLog("Wrote %d query(s) to %s", len(result.Queries), opts.Output)
	}

	if opts.Check != "" {
		drift, err := checkBuildResult(result, opts.Check)
		if err != nil {
			return formatter.Fail(ErrCodeLoadFailed, fmt.Sprintf("reading check file: %v", err), nil)
		}
		if len(drift) > 0 {
			_ = formatter.Error(ErrCodeGeneric, "built output differs from "+opts.Check, drift)
			if formatter.Format != "json" {
				for _, d := range drift {
					fmt.Fprintf(formatter.Writer, "  ✗ %s\n", d)
				}
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d query(s) drifted", len(drift)))
		}
	}

	return formatter.Success(result)
}

// loadForCommand loads queries from path and reports load errors through
// the formatter.
func loadForCommand(formatter *OutputFormatter, path string) ([]compiler.Query, error) {
	loadResult, loadErrors := LoadQueries(path, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return nil, formatter.Fail(loadErr.Code, loadErr.Message, nil)
		}
		return nil, formatter.Fail(ErrCodeGeneric, loadErrors[0].Error(), nil)
	}
	formatter.VerboseLog("Found %d query file(s) in %s", loadResult.FileCount, path)

	if len(loadErrors) > 0 {
		return nil, outputLoadErrors(formatter, loadErrors)
	}
	for _, q := range loadResult.Queries {
		formatter.VerboseLog("Compiled query: %s", q.Name)
	}
	return loadResult.Queries, nil
}

type buildFailure struct {
	name     string
	problems []string
}

func (e *buildFailure) Error() string {
	return fmt.Sprintf("query %q failed verification: %s", e.name, strings.Join(e.problems, "; "))
}

// buildQueries verifies and encodes every query.
func buildQueries(queries []compiler.Query) (*BuildResult, error) {
	result := &BuildResult{
		WireVersion:    term.WireVersion,
		BuilderVersion: term.BuilderVersion,
		Queries:        make([]BuiltQuery, 0, len(queries)),
	}
	for _, q := range queries {
		if v := term.Verify(q.Root); !v.Valid {
			return nil, &buildFailure{name: q.Name, problems: v.Problems}
		}
		wire, err := term.EncodeCanonical(q.Root)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", q.Name, err)
		}
		hash, err := term.Hash(q.Root)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", q.Name, err)
		}
		result.Queries = append(result.Queries, BuiltQuery{
			Name:     q.Name,
			RootKind: q.Root.Kind().String(),
			Hash:     hash,
			Wire:     json.RawMessage(wire),
		})
	}
	return result, nil
}

func writeBuildResult(result *BuildResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling build result: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// checkBuildResult compares result with a file written by --output and
// describes each query that was added, removed, or changed.
func checkBuildResult(result *BuildResult, filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var previous BuildResult
	if err := json.Unmarshal(data, &previous); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	before := make(map[string]string, len(previous.Queries))
	for _, q := range previous.Queries {
		before[q.Name] = q.Hash
	}

	var drift []string
	for _, q := range result.Queries {
		hash, ok := before[q.Name]
		switch {
		case !ok:
			drift = append(drift, fmt.Sprintf("%s: new query", q.Name))
		case hash != q.Hash:
			drift = append(drift, fmt.Sprintf("%s: hash %s, was %s", q.Name, q.Hash, hash))
		}
		delete(before, q.Name)
	}
	for _, q := range previous.Queries {
		if _, ok := before[q.Name]; ok {
			drift = append(drift, fmt.Sprintf("%s: removed", q.Name))
		}
	}
	return drift, nil
}

// outputLoadErrors outputs every compile or load error.
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseLoadError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}
		if err := json.NewEncoder(formatter.Writer).Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		code, message := parseLoadError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseLoadError extracts error code and message from an error.
func parseLoadError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return compileErr.Code, compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
