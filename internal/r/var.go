package r

import (
	"github.com/abreit/rethinkdb/internal/datum"
	"github.com/abreit/rethinkdb/internal/gensym"
	"github.com/abreit/rethinkdb/internal/term"
)

// Var names a function parameter. Vars are plain values and may be
// referenced any number of times.
type Var struct {
	ID int64
}

// NewVar draws a fresh identifier from src.
func NewVar(src gensym.Source) Var {
	return Var{ID: src.Next()}
}

// VarID wraps a known identifier.
func VarID(id int64) Var {
	return Var{ID: id}
}

// Ref builds VAR(id), a reference to the parameter.
func (v Var) Ref() *Term {
	return wrap(varNode(v.ID))
}

func varNode(id int64) *term.Term {
	n := term.New(term.KindVar)
	if err := n.AppendArg(term.NewDatum(datum.Num(id))); err != nil {
		panic(fromTermError(term.KindVar, err))
	}
	return n
}

// Fun0 builds FUNC([], body).
func Fun0(body any) *Term {
	return Fun(nil, body)
}

// Fun1 builds FUNC([x], body).
func Fun1(x Var, body any) *Term {
	return Fun([]Var{x}, body)
}

// Fun2 builds FUNC([x, y], body).
func Fun2(x, y Var, body any) *Term {
	return Fun([]Var{x, y}, body)
}

// Fun builds FUNC(MAKE_ARRAY(ids...), body) for any number of parameters.
func Fun(params []Var, body any) *Term {
	ids := make([]any, len(params))
	for i, p := range params {
		ids[i] = p.ID
	}
	return Construct(term.KindFunc, Array(ids...), body)
}
