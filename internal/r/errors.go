package r

import (
	"errors"
	"fmt"

	"github.com/abreit/rethinkdb/internal/term"
)

// ErrorCode categorizes builder errors.
type ErrorCode string

const (
	// ErrCodeUseAfterConsume indicates a handle was used after it was
	// folded into a parent or built.
	ErrCodeUseAfterConsume ErrorCode = "USE_AFTER_CONSUME"

	// ErrCodeDuplicateOptArg indicates a named argument was given twice.
	ErrCodeDuplicateOptArg ErrorCode = "DUPLICATE_OPTARG"

	// ErrCodeUnsupportedValue indicates an argument with no lifting rule.
	ErrCodeUnsupportedValue ErrorCode = "UNSUPPORTED_VALUE"

	// ErrCodeInvalidTerm indicates the term layer rejected an append,
	// e.g. attaching children to a DATUM.
	ErrCodeInvalidTerm ErrorCode = "INVALID_TERM"
)

// BuildError is the panic value raised by misuse of the builder.
type BuildError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the kind of the term under construction, if any.
	Kind term.Kind

	// ValueType names the Go type of the offending argument
	// (ErrCodeUnsupportedValue only).
	ValueType string

	// Err is the underlying term-layer error, if any.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Kind != 0 {
		return fmt.Sprintf("%s: %s (building %s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying term-layer error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func isCode(err error, code ErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsUseAfterConsume returns true if err reports reuse of a consumed handle.
func IsUseAfterConsume(err error) bool {
	return isCode(err, ErrCodeUseAfterConsume)
}

// IsDuplicateOptArg returns true if err reports a repeated named argument.
func IsDuplicateOptArg(err error) bool {
	return isCode(err, ErrCodeDuplicateOptArg)
}

// IsUnsupportedValue returns true if err reports an argument with no lifting rule.
func IsUnsupportedValue(err error) bool {
	return isCode(err, ErrCodeUnsupportedValue)
}

func errConsumed() *BuildError {
	return &BuildError{
		Code:    ErrCodeUseAfterConsume,
		Message: "term handle already consumed",
	}
}

func errUnsupported(v any, reason string) *BuildError {
	typ := fmt.Sprintf("%T", v)
	msg := fmt.Sprintf("cannot lift value of type %s", typ)
	if reason != "" {
		msg += ": " + reason
	}
	return &BuildError{
		Code:      ErrCodeUnsupportedValue,
		Message:   msg,
		ValueType: typ,
	}
}

// fromTermError maps a term-layer append failure onto a BuildError.
func fromTermError(kind term.Kind, err error) *BuildError {
	var dup *term.DuplicateOptArgError
	if errors.As(err, &dup) {
		return &BuildError{
			Code:    ErrCodeDuplicateOptArg,
			Message: fmt.Sprintf("optarg %q given more than once", dup.Key),
			Kind:    kind,
			Err:     err,
		}
	}
	return &BuildError{
		Code:    ErrCodeInvalidTerm,
		Message: err.Error(),
		Kind:    kind,
		Err:     err,
	}
}

// Try runs one construction expression and returns its handle.
// A *BuildError panic raised while building is returned as an error; the
// partially built tree is discarded. Any other panic propagates.
func Try(build func() *Term) (h *Term, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			be, ok := rec.(*BuildError)
			if !ok {
				panic(rec)
			}
			h, err = nil, be
		}
	}()
	return build(), nil
}

// Catch is Try followed by Build: it returns the finished root node.
func Catch(build func() *Term) (*term.Term, error) {
	var root *term.Term
	_, err := Try(func() *Term {
		root = build().Build()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}
