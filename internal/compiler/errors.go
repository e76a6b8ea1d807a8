package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile error codes (C001-C099)
const (
	ErrUnknownOperator = "C001" // struct key is not an operator or kind name
	ErrBadShape        = "C002" // operator value has the wrong form
	ErrUnboundVariable = "C003" // var references a name no enclosing fun binds
	ErrArity           = "C004" // wrong number of arguments for a fixed-arity form
	ErrBuilder         = "C005" // builder rejected the construction
	ErrCUE             = "C006" // CUE evaluation or parse failure
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s:%d:%d: %s: %s",
			e.Code, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

func errorAt(v cue.Value, code, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    code,
		Field:   fieldOf(v),
		Message: fmt.Sprintf(format, args...),
		Pos:     v.Pos(),
	}
}

// fieldOf renders the value's path, or "query" for the root.
func fieldOf(v cue.Value) string {
	if p := v.Path().String(); p != "" {
		return p
	}
	return "query"
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	ce := &CompileError{
		Code:    ErrCUE,
		Field:   "cue",
		Message: firstErr.Error(),
	}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
