package r

import (
	"github.com/abreit/rethinkdb/internal/datum"
	"github.com/abreit/rethinkdb/internal/term"
)

// Expr lifts a single value into its own handle.
// Passing a *Term moves its node into the returned handle.
func Expr(v any) *Term {
	return wrap(lift(v))
}

// Boolean builds a DATUM literal holding b.
func Boolean(b bool) *Term {
	return wrap(term.NewDatum(datum.Bool(b)))
}

// Null builds a DATUM literal holding null.
func Null() *Term {
	return wrap(term.NewDatum(datum.Null{}))
}

// Array builds MAKE_ARRAY from the lifted items.
func Array(items ...any) *Term {
	return Construct(term.KindMakeArray, items...)
}

// Object builds MAKE_OBJ. Each pair becomes a named argument.
func Object(fields ...Pair) *Term {
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return Construct(term.KindMakeObj, args...)
}

// Error builds ERROR with the given message.
func Error(message any) *Term {
	return Construct(term.KindError, message)
}

// Branch builds BRANCH(test, then, else).
func Branch(test, then, otherwise any) *Term {
	return Construct(term.KindBranch, test, then, otherwise)
}

// DB builds DB(name).
func DB(name any) *Term {
	return Construct(term.KindDB, name)
}

// Table builds TABLE(name) against the default database.
func Table(name any, opts ...Pair) *Term {
	args := make([]any, 0, len(opts)+1)
	args = append(args, name)
	for _, o := range opts {
		args = append(args, o)
	}
	return Construct(term.KindTable, args...)
}

// Row builds IMPLICIT_VAR, the implicit argument of a one-argument function.
func Row() *Term {
	return Construct(term.KindImplicitVar)
}
