package term

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/datum"
)

func TestVerifyValidTree(t *testing.T) {
	fn := build(t, KindFunc,
		build(t, KindMakeArray, num(1), num(2)),
		build(t, KindAdd, build(t, KindVar, num(1)), build(t, KindVar, num(2))),
	)
	root := build(t, KindFuncall, fn, num(3), num(4))

	result := Verify(root)
	assert.True(t, result.Valid, "problems: %v", result.Problems)
	assert.Empty(t, result.Problems)
}

func TestVerifySharedNode(t *testing.T) {
	shared := num(1)
	root := build(t, KindAdd, shared, build(t, KindMul, shared, num(2)))

	result := Verify(root)
	require.False(t, result.Valid)
	require.Len(t, result.Problems, 1)
	assert.Contains(t, result.Problems[0], "$.args[1].args[0]")
	assert.Contains(t, result.Problems[0], "already attached at $.args[0]")
}

func TestVerifySharedViaOptArg(t *testing.T) {
	shared := str("x")
	root := build(t, KindPluck, shared)
	require.NoError(t, root.SetOptArg("again", shared))

	result := Verify(root)
	assert.False(t, result.Valid)
}

func TestVerifyProblems(t *testing.T) {
	tests := []struct {
		name string
		term *Term
		want string
	}{
		{"nil root", nil, "nil term"},
		{"datum without value", &Term{kind: KindDatum}, "DATUM without a value"},
		{"datum with nil element", NewDatum(datum.Array{datum.Num(1), nil}), "DATUM value: array[1]: nil value"},
		{"datum with nan", NewDatum(datum.Object{"x": datum.Num(math.NaN())}), "DATUM value: object[\"x\"]: non-finite"},
		{"datum with children", &Term{kind: KindDatum, datum: datum.Num(1), args: []*Term{num(2)}}, "DATUM with children"},
		{"value on non-datum", &Term{kind: KindAdd, datum: datum.Num(1)}, "carries a literal value"},
		{"unknown kind", New(Kind(7)), "unknown kind 7"},
		{"nil child", &Term{kind: KindAdd, args: []*Term{nil}}, "$.args[0]: nil term"},
		{"func arity", build(t, KindFunc, num(1)), "FUNC needs a parameter list and a body"},
		{"func params kind", build(t, KindFunc, num(1), num(2)), "must be MAKE_ARRAY"},
		{"func param id", build(t, KindFunc, build(t, KindMakeArray, str("x")), num(1)), "parameter 0 is not an integer id"},
		{"var arity", New(KindVar), "VAR must have exactly one integer id"},
		{"var fractional id", build(t, KindVar, num(1.5)), "VAR must have exactly one integer id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Verify(tt.term)
			require.False(t, result.Valid)
			assert.Contains(t, result.Problems[0], tt.want)
		})
	}
}

func TestVerifyCollectsAll(t *testing.T) {
	root := &Term{kind: KindAdd, args: []*Term{nil, {kind: KindDatum}, New(Kind(5))}}

	result := Verify(root)
	assert.Len(t, result.Problems, 3)
}
