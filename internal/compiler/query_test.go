package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/gensym"
	"github.com/abreit/rethinkdb/internal/term"
	"github.com/abreit/rethinkdb/internal/testutil"
)

func compileOne(t *testing.T, src string) (*term.Term, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString("query: q: " + src)
	require.NoError(t, v.Err())
	return CompileQuery(v.LookupPath(cue.ParsePath("query.q")), gensym.NewSequence(0))
}

var wire = testutil.Wire

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"int", `42`, `42`},
		{"float", `1.5`, `1.5`},
		{"string", `"hi"`, `"hi"`},
		{"bool", `false`, `false`},
		{"null", `null`, `null`},
		{"list", `[1, "a", true, null]`, `[2,[1,"a",true,null]]`},
		{"empty list", `[]`, `[2,[]]`},
		{"add", `{add: [1, 2]}`, `[24,[1,2]]`},
		{"mixed numbers", `{sub: [10, 2.5]}`, `[25,[10,2.5]]`},
		{"datum", `{datum: {a: [1, 2], b: null}}`, `{"a":[2,[1,2]],"b":null}`},
		{"datum list", `{datum: [1, [2]]}`, `[2,[1,[2,[2]]]]`},
		{"opts", `{table: ["users"], opts: {read_mode: "outdated"}}`, `[15,["users"],{"read_mode":"outdated"}]`},
		{"branch", `{branch: [{gt: [1, 0]}, "pos", "neg"]}`, `[65,[[21,[1,0]],"pos","neg"]]`},
		{"db table get", `{get: [{table: [{db: "test"}, "users"]}, "bob"]}`, `[16,[[15,[[14,["test"]],"users"]],"bob"]]`},
		{"error", `{error: "boom"}`, `[12,["boom"]]`},
		{"implicit var", `{get_field: [{implicit_var: []}, "age"]}`, `[31,[[13,[]],"age"]]`},
		{"fun zero params", `{fun: {body: 1}}`, `[69,[[2,[]],1]]`},
		{"fun empty params", `{fun: {params: [], body: 1}}`, `[69,[[2,[]],1]]`},
		{"fun two params", `{fun: {params: ["a", "b"], body: {add: [{var: "a"}, {var: "b"}]}}}`, `[69,[[2,[1,2]],[24,[[10,[1]],[10,[2]]]]]]`},
		{
			"map with fun",
			`{map: [[1, 2, 3], {fun: {params: ["x"], body: {add: [{var: "x"}, 1]}}}]}`,
			`[38,[[2,[1,2,3]],[69,[[2,[1]],[24,[[10,[1]],1]]]]]]`,
		},
		{
			"shadowing",
			`{fun: {params: ["x"], body: {fun: {params: ["x"], body: {var: "x"}}}}}`,
			`[69,[[2,[1]],[69,[[2,[2]],[10,[2]]]]]]`,
		},
		{
			"outer reference",
			`{fun: {params: ["x"], body: {fun: {params: ["y"], body: {var: "x"}}}}}`,
			`[69,[[2,[1]],[69,[[2,[2]],[10,[1]]]]]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := compileOne(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, wire(t, root))
			assert.True(t, term.Verify(root).Valid)
		})
	}
}

func TestCompileQuery_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown operator", `{frobnicate: [1]}`, ErrUnknownOperator},
		{"upper case kind", `{ADD: [1]}`, ErrUnknownOperator},
		{"two operators", `{add: [1], sub: [2]}`, ErrBadShape},
		{"empty struct", `{}`, ErrBadShape},
		{"args not a list", `{add: 1}`, ErrBadShape},
		{"var not a string", `{var: 1}`, ErrBadShape},
		{"opts on special", `{error: "x", opts: {a: 1}}`, ErrBadShape},
		{"opts not a struct", `{table: ["t"], opts: [1]}`, ErrBadShape},
		{"not concrete", `int`, ErrBadShape},
		{"imprecise int", `9007199254740993`, ErrBadShape},
		{"fun without body", `{fun: {params: ["x"]}}`, ErrBadShape},
		{"duplicate param", `{fun: {params: ["x", "x"], body: 1}}`, ErrBadShape},
		{"unbound var", `{var: "y"}`, ErrUnboundVariable},
		{"var out of scope", `[{fun: {params: ["x"], body: 1}}, {var: "x"}]`, ErrUnboundVariable},
		{"branch arity", `{branch: [1, 2]}`, ErrArity},
		{"too many params", `{fun: {params: ["a", "b", "c"], body: 1}}`, ErrArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileOne(t, tt.src)
			require.Error(t, err)

			var ce *CompileError
			require.True(t, errors.As(err, &ce), "expected *CompileError, got %T: %v", err, err)
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestCompileQueries_SourceOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		query: {
			second: {fun: {params: ["x"], body: {var: "x"}}}
			first:  {fun: {params: ["x"], body: {var: "x"}}}
		}
	`)
	require.NoError(t, v.Err())

	queries, err := CompileQueries(v, gensym.NewSequence(0))
	require.NoError(t, err)
	require.Len(t, queries, 2)

	assert.Equal(t, "second", queries[0].Name)
	assert.Equal(t, "first", queries[1].Name)

	// One identifier source serves the whole document.
	assert.Equal(t, `[69,[[2,[1]],[10,[1]]]]`, wire(t, queries[0].Root))
	assert.Equal(t, `[69,[[2,[2]],[10,[2]]]]`, wire(t, queries[1].Root))
}

func TestCompileQuery_ScriptedIDs(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`query: q: {fun: {params: ["a", "b"], body: {sub: [{var: "b"}, {var: "a"}]}}}`)
	require.NoError(t, v.Err())

	ids := testutil.NewScriptedSource(7, 3)
	root, err := CompileQuery(v.LookupPath(cue.ParsePath("query.q")), ids)
	require.NoError(t, err)

	// Parameters draw identifiers in declaration order.
	assert.Equal(t, `[69,[[2,[7,3]],[25,[[10,[3]],[10,[7]]]]]]`, wire(t, root))
	assert.Equal(t, 0, ids.Remaining())
}

func TestCompileQueries_MissingQuery(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`foo: 1`)
	require.NoError(t, v.Err())

	_, err := CompileQueries(v, gensym.NewCounter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Code: ErrArity, Field: "query.q.branch", Message: "expected 3 arguments, got 2"}
	assert.Equal(t, "[C004] query.q.branch: expected 3 arguments, got 2", err.Error())
}

func TestCompileQuery_ErrorPosition(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString("query: q: {var: \"y\"}", cue.Filename("q.cue"))
	require.NoError(t, v.Err())

	_, err := CompileQuery(v.LookupPath(cue.ParsePath("query.q")), gensym.NewCounter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q.cue:1:")
	assert.Contains(t, err.Error(), "[C003]")
}
