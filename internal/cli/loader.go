package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/abreit/rethinkdb/internal/compiler"
	"github.com/abreit/rethinkdb/internal/gensym"
)

// LoadMode controls how errors are handled during query loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the queries compiled from a file or directory.
type LoadResult struct {
	Queries   []compiler.Query
	FileCount int // Number of query documents found
}

// LoadError represents an error that occurred during query loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadQueries compiles the queries in path. A file is read as CUE or YAML by
// extension. A directory contributes its .cue files as one CUE package plus
// every .yaml/.yml file on its own. Query names must be unique across the
// whole load.
//
// All documents share one identifier source, so fun parameters are distinct
// across every loaded query.
func LoadQueries(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	ids := gensym.NewCounter()
	if !info.IsDir() {
		return loadFile(path, ids)
	}

	cueFiles, yamlFiles, err := FindQueryFiles(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no query files found in %s", path)}}
	}

	result := &LoadResult{FileCount: len(cueFiles) + len(yamlFiles)}
	var errs []error
	seen := make(map[string]bool)

	add := func(queries []compiler.Query) bool {
		for _, q := range queries {
			if seen[q.Name] {
				errs = append(errs, &LoadError{Code: ErrCodeDuplicate, Message: fmt.Sprintf("duplicate query name %q", q.Name)})
				if mode == LoadModeFailFast {
					return false
				}
				continue
			}
			seen[q.Name] = true
			result.Queries = append(result.Queries, q)
		}
		return true
	}

	if len(cueFiles) > 0 {
		value, loadErr := loadPackage(path)
		if loadErr != nil {
			return nil, []error{loadErr}
		}
		queries, compileErr := compiler.CompileQueries(value, ids)
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, path))
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else if !add(queries) {
			return result, errs
		}
	}

	for _, file := range yamlFiles {
		queries, fileErrs := compileFile(file, ids)
		if len(fileErrs) > 0 {
			errs = append(errs, fileErrs...)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		if !add(queries) {
			return result, errs
		}
	}

	if len(result.Queries) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no queries found"})
	}

	return result, errs
}

func loadFile(path string, ids gensym.Source) (*LoadResult, []error) {
	queries, errs := compileFile(path, ids)
	if len(errs) > 0 {
		return &LoadResult{FileCount: 1}, errs
	}
	if len(queries) == 0 {
		return &LoadResult{FileCount: 1}, []error{&LoadError{Code: ErrCodeGeneric, Message: "no queries found"}}
	}
	return &LoadResult{Queries: queries, FileCount: 1}, nil
}

func compileFile(path string, ids gensym.Source) ([]compiler.Query, []error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}
	queries, err := compiler.CompileSource(path, src, ids)
	if err != nil {
		return nil, []error{convertCompileError(err, path)}
	}
	return queries, nil
}

// loadPackage builds the CUE package in dir.
func loadPackage(dir string) (cue.Value, *LoadError) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

// FindQueryFiles returns the .cue and the .yaml/.yml files directly in dir,
// each sorted by path.
func FindQueryFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch filepath.Ext(e.Name()) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
	}
	slices.Sort(cueFiles)
	slices.Sort(yamlFiles)
	return cueFiles, yamlFiles, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    compileErr.Code,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
// Compile errors keep their compiler codes (C001-C006).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No query files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDuplicate   = "E008" // Query name defined twice
	ErrCodeNoQuery     = "E009" // Query not in catalog
	ErrCodeInvalidTerm = "E010" // Tree failed verification
	ErrCodeDatabase    = "E011" // Catalog open/read/write error
)
