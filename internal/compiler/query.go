package compiler

import (
	"strings"

	"cuelang.org/go/cue"

	"github.com/abreit/rethinkdb/internal/datum"
	"github.com/abreit/rethinkdb/internal/gensym"
	"github.com/abreit/rethinkdb/internal/r"
	"github.com/abreit/rethinkdb/internal/term"
)

// MaxFunParams is the largest parameter list a fun operator accepts.
const MaxFunParams = 2

// Query is one named, compiled query.
type Query struct {
	Name string
	Root *term.Term
}

// CompileQueries compiles every field under the top-level "query" struct,
// in source order. Fresh variable identifiers for all queries are drawn
// from ids.
func CompileQueries(v cue.Value, ids gensym.Source) ([]Query, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	queriesVal := v.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return nil, &CompileError{
			Code:    ErrBadShape,
			Field:   "query",
			Message: "query is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, errorAt(queriesVal, ErrBadShape, "query must be a struct of named expressions")
	}

	queries := []Query{}
	for iter.Next() {
		root, err := CompileQuery(iter.Value(), ids)
		if err != nil {
			return nil, err
		}
		queries = append(queries, Query{Name: iter.Label(), Root: root})
	}
	return queries, nil
}

// CompileQuery compiles a single expression into a finished tree.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: q: {add: [1, 2]}`)
//	root, err := CompileQuery(v.LookupPath(cue.ParsePath("query.q")), gensym.NewCounter())
func CompileQuery(v cue.Value, ids gensym.Source) (*term.Term, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &compiler{ids: ids}
	h, err := c.expr(v, nil)
	if err != nil {
		return nil, err
	}
	return h.Build(), nil
}

// scope binds fun parameter names to variables. Inner bindings shadow outer.
type scope struct {
	name   string
	v      r.Var
	parent *scope
}

func (s *scope) lookup(name string) (r.Var, bool) {
	for ; s != nil; s = s.parent {
		if s.name == name {
			return s.v, true
		}
	}
	return r.Var{}, false
}

type compiler struct {
	ids gensym.Source
}

// build runs one builder call, turning builder panics into C005 errors
// positioned at v.
func (c *compiler) build(v cue.Value, fn func() *r.Term) (*r.Term, error) {
	h, err := r.Try(fn)
	if err != nil {
		return nil, errorAt(v, ErrBuilder, "%v", err)
	}
	return h, nil
}

func (c *compiler) expr(v cue.Value, sc *scope) (*r.Term, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch v.IncompleteKind() {
	case cue.StructKind:
		return c.operator(v, sc)
	case cue.ListKind:
		items, err := c.list(v, sc)
		if err != nil {
			return nil, err
		}
		return c.build(v, func() *r.Term { return r.Array(items...) })
	}

	if !v.IsConcrete() {
		return nil, errorAt(v, ErrBadShape, "value must be concrete, got %v", v.IncompleteKind())
	}

	switch v.Kind() {
	case cue.NullKind:
		return r.Null(), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return r.Boolean(b), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return r.Expr(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, errorAt(v, ErrBadShape, "integer out of range")
		}
		if int64(float64(i)) != i {
			return nil, errorAt(v, ErrBadShape, "integer %d is not exactly representable", i)
		}
		return r.Expr(i), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, errorAt(v, ErrBadShape, "number out of range")
		}
		return c.build(v, func() *r.Term { return r.Expr(f) })
	default:
		return nil, errorAt(v, ErrBadShape, "unsupported value kind %v", v.Kind())
	}
}

// list compiles every element of a CUE list, in order.
func (c *compiler) list(v cue.Value, sc *scope) ([]any, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	items := []any{}
	for iter.Next() {
		h, err := c.expr(iter.Value(), sc)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, nil
}

func (c *compiler) operator(v cue.Value, sc *scope) (*r.Term, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var (
		op      string
		opVal   cue.Value
		optsVal cue.Value
		hasOpts bool
	)
	for iter.Next() {
		label := iter.Label()
		if label == "opts" {
			optsVal, hasOpts = iter.Value(), true
			continue
		}
		if op != "" {
			return nil, errorAt(v, ErrBadShape, "expression has more than one operator: %s, %s", op, label)
		}
		op, opVal = label, iter.Value()
	}
	if op == "" {
		return nil, errorAt(v, ErrBadShape, "expression needs exactly one operator")
	}
	if hasOpts && isSpecial(op) {
		return nil, errorAt(optsVal, ErrBadShape, "%s does not take opts", op)
	}

	switch op {
	case "datum":
		return c.datum(opVal)
	case "var":
		return c.variable(opVal, sc)
	case "fun":
		return c.fun(opVal, sc)
	case "db":
		name, err := c.expr(opVal, sc)
		if err != nil {
			return nil, err
		}
		return c.build(opVal, func() *r.Term { return r.DB(name) })
	case "error":
		msg, err := c.expr(opVal, sc)
		if err != nil {
			return nil, err
		}
		return c.build(opVal, func() *r.Term { return r.Error(msg) })
	case "branch":
		args, err := c.args(opVal, sc, 3)
		if err != nil {
			return nil, err
		}
		return c.build(opVal, func() *r.Term { return r.Branch(args[0], args[1], args[2]) })
	}

	if op != strings.ToLower(op) {
		return nil, errorAt(opVal, ErrUnknownOperator, "operator %q must be lower case", op)
	}
	kind, err := term.ParseKind(op)
	if err != nil || isSpecial(strings.ToLower(kind.String())) {
		return nil, errorAt(opVal, ErrUnknownOperator, "unknown operator %q", op)
	}

	args, err := c.args(opVal, sc, -1)
	if err != nil {
		return nil, err
	}
	if hasOpts {
		opts, err := c.opts(optsVal, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, opts...)
	}
	return c.build(opVal, func() *r.Term { return r.Construct(kind, args...) })
}

// isSpecial reports operators whose value is not a plain argument list.
func isSpecial(op string) bool {
	switch op {
	case "datum", "var", "fun", "db", "error", "branch":
		return true
	}
	return false
}

// args compiles an argument list. A want of -1 accepts any length.
func (c *compiler) args(v cue.Value, sc *scope, want int) ([]any, error) {
	if v.IncompleteKind() != cue.ListKind {
		return nil, errorAt(v, ErrBadShape, "arguments must be a list")
	}
	args, err := c.list(v, sc)
	if err != nil {
		return nil, err
	}
	if want >= 0 && len(args) != want {
		return nil, errorAt(v, ErrArity, "expected %d arguments, got %d", want, len(args))
	}
	return args, nil
}

func (c *compiler) opts(v cue.Value, sc *scope) ([]any, error) {
	if v.IncompleteKind() != cue.StructKind {
		return nil, errorAt(v, ErrBadShape, "opts must be a struct")
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	opts := []any{}
	for iter.Next() {
		h, err := c.expr(iter.Value(), sc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, r.OptArg(iter.Label(), h))
	}
	return opts, nil
}

func (c *compiler) datum(v cue.Value) (*r.Term, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, errorAt(v, ErrBadShape, "datum must be concrete: %v", err)
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}
	d, err := datum.UnmarshalDatum(data)
	if err != nil {
		return nil, errorAt(v, ErrBadShape, "datum: %v", err)
	}
	return c.build(v, func() *r.Term { return r.Expr(d) })
}

func (c *compiler) variable(v cue.Value, sc *scope) (*r.Term, error) {
	name, err := v.String()
	if err != nil {
		return nil, errorAt(v, ErrBadShape, "var must name a fun parameter")
	}
	bound, ok := sc.lookup(name)
	if !ok {
		return nil, errorAt(v, ErrUnboundVariable, "variable %q is not bound by an enclosing fun", name)
	}
	return bound.Ref(), nil
}

func (c *compiler) fun(v cue.Value, sc *scope) (*r.Term, error) {
	if v.IncompleteKind() != cue.StructKind {
		return nil, errorAt(v, ErrBadShape, "fun must be a struct with params and body")
	}

	bodyVal := v.LookupPath(cue.ParsePath("body"))
	if !bodyVal.Exists() {
		return nil, errorAt(v, ErrBadShape, "fun body is required")
	}

	var names []string
	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		if err := paramsVal.Decode(&names); err != nil {
			return nil, errorAt(paramsVal, ErrBadShape, "params must be a list of names")
		}
	}
	if len(names) > MaxFunParams {
		return nil, errorAt(paramsVal, ErrArity, "fun takes at most %d params, got %d", MaxFunParams, len(names))
	}

	params := make([]r.Var, 0, len(names))
	seen := make(map[string]bool, len(names))
	inner := sc
	for _, name := range names {
		if name == "" {
			return nil, errorAt(paramsVal, ErrBadShape, "param names must be non-empty")
		}
		if seen[name] {
			return nil, errorAt(paramsVal, ErrBadShape, "duplicate param %q", name)
		}
		seen[name] = true

		pv := r.NewVar(c.ids)
		params = append(params, pv)
		inner = &scope{name: name, v: pv, parent: inner}
	}

	body, err := c.expr(bodyVal, inner)
	if err != nil {
		return nil, err
	}
	return c.build(v, func() *r.Term { return r.Fun(params, body) })
}
