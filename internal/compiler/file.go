package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	"github.com/abreit/rethinkdb/internal/gensym"
)

// CompileSource compiles a query document held in memory. The filename
// extension selects the syntax: .yaml and .yml are read as YAML, anything
// else as CUE.
func CompileSource(filename string, src []byte, ids gensym.Source) ([]Query, error) {
	v, err := ParseSource(cuecontext.New(), filename, src)
	if err != nil {
		return nil, err
	}
	return CompileQueries(v, ids)
}

// ParseSource evaluates a CUE or YAML document into a CUE value.
func ParseSource(ctx *cue.Context, filename string, src []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		f, err := yaml.Extract(filename, src)
		if err != nil {
			return cue.Value{}, fmt.Errorf("parse %s: %w", filename, formatCUEError(err))
		}
		v := ctx.BuildFile(f)
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	default:
		v := ctx.CompileBytes(src, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	}
}
