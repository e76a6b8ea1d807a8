package r

import "github.com/abreit/rethinkdb/internal/term"

// Method forms. Each consumes the receiver as argument 0 followed by args.

func (t *Term) Add(args ...any) *Term { return t.Call(term.KindAdd, args...) }
func (t *Term) Sub(args ...any) *Term { return t.Call(term.KindSub, args...) }
func (t *Term) Mul(args ...any) *Term { return t.Call(term.KindMul, args...) }
func (t *Term) Div(args ...any) *Term { return t.Call(term.KindDiv, args...) }
func (t *Term) Mod(args ...any) *Term { return t.Call(term.KindMod, args...) }

func (t *Term) Eq(args ...any) *Term { return t.Call(term.KindEq, args...) }
func (t *Term) Ne(args ...any) *Term { return t.Call(term.KindNe, args...) }
func (t *Term) Lt(args ...any) *Term { return t.Call(term.KindLt, args...) }
func (t *Term) Le(args ...any) *Term { return t.Call(term.KindLe, args...) }
func (t *Term) Gt(args ...any) *Term { return t.Call(term.KindGt, args...) }
func (t *Term) Ge(args ...any) *Term { return t.Call(term.KindGe, args...) }

func (t *Term) And(args ...any) *Term { return t.Call(term.KindAnd, args...) }
func (t *Term) Or(args ...any) *Term  { return t.Call(term.KindOr, args...) }
func (t *Term) Not() *Term            { return t.Call(term.KindNot) }

// Field builds GET_FIELD(t, name).
func (t *Term) Field(name any) *Term { return t.Call(term.KindGetField, name) }

// HasFields builds HAS_FIELDS(t, fields...).
func (t *Term) HasFields(fields ...any) *Term { return t.Call(term.KindHasFields, fields...) }

// Pluck builds PLUCK(t, fields...).
func (t *Term) Pluck(fields ...any) *Term { return t.Call(term.KindPluck, fields...) }

// Without builds WITHOUT(t, fields...).
func (t *Term) Without(fields ...any) *Term { return t.Call(term.KindWithout, fields...) }

// Merge builds MERGE(t, objs...).
func (t *Term) Merge(objs ...any) *Term { return t.Call(term.KindMerge, objs...) }

// Nth builds NTH(t, index).
func (t *Term) Nth(index any) *Term { return t.Call(term.KindNth, index) }

// Count builds COUNT(t, args...).
func (t *Term) Count(args ...any) *Term { return t.Call(term.KindCount, args...) }

// Distinct builds DISTINCT(t, args...).
func (t *Term) Distinct(args ...any) *Term { return t.Call(term.KindDistinct, args...) }

// OrderBy builds ORDER_BY(t, keys...).
func (t *Term) OrderBy(keys ...any) *Term { return t.Call(term.KindOrderBy, keys...) }

// Map builds MAP(t, fn).
func (t *Term) Map(fn any) *Term { return t.Call(term.KindMap, fn) }

// Filter builds FILTER(t, predicate, opts...).
func (t *Term) Filter(predicate any, opts ...any) *Term {
	return t.Call(term.KindFilter, append([]any{predicate}, opts...)...)
}

// Default builds DEFAULT(t, fallback).
func (t *Term) Default(fallback any) *Term { return t.Call(term.KindDefault, fallback) }

// Table builds TABLE(t, name, opts...) against the receiver database.
func (t *Term) Table(name any, opts ...any) *Term {
	return t.Call(term.KindTable, append([]any{name}, opts...)...)
}

// Get builds GET(t, key).
func (t *Term) Get(key any) *Term { return t.Call(term.KindGet, key) }

// Do builds FUNCALL(fn, t, args...): fn applied to the receiver and args.
func (t *Term) Do(fn any, args ...any) *Term {
	all := make([]any, 0, len(args)+2)
	all = append(all, fn, t)
	all = append(all, args...)
	return Construct(term.KindFuncall, all...)
}

// Invoke builds FUNCALL(t, args...): the receiver is the function.
func (t *Term) Invoke(args ...any) *Term { return t.Call(term.KindFuncall, args...) }
