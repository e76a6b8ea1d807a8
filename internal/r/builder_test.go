package r

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/datum"
	"github.com/abreit/rethinkdb/internal/term"
	"github.com/abreit/rethinkdb/internal/testutil"
)

var wire = testutil.Wire

func TestConstruct_AddLiterals(t *testing.T) {
	pairs := [][2]float64{{1, 2}, {0, -1}, {1.5, 2.25}, {-1e21, 3}}
	for _, p := range pairs {
		root := Construct(term.KindAdd, p[0], p[1]).Build()

		assert.Equal(t, term.KindAdd, root.Kind())
		require.Equal(t, 2, root.NumArgs())
		assert.Equal(t, 0, root.NumOptArgs())
		for i, want := range p {
			arg := root.Arg(i)
			assert.Equal(t, term.KindDatum, arg.Kind())
			assert.Equal(t, datum.Num(want), arg.Datum())
		}
	}
}

func TestConstruct_ArgumentOrder(t *testing.T) {
	root := Construct(term.KindTable, "users", OptArg("read_mode", "outdated"), Expr("x")).Build()
	assert.Equal(t, `[15,["users","x"],{"read_mode":"outdated"}]`, wire(t, root))
}

func TestCall_ReceiverIsFirstArgument(t *testing.T) {
	root := Expr(10).Call(term.KindSub, 3, 2).Build()
	assert.Equal(t, `[25,[10,3,2]]`, wire(t, root))
}

func TestBuild_ConsumesHandle(t *testing.T) {
	h := Expr(1)
	assert.False(t, h.Consumed())
	_ = h.Build()
	assert.True(t, h.Consumed())
	assert.Equal(t, "<consumed>", h.String())

	_, err := Catch(func() *Term { return h })
	assert.True(t, IsUseAfterConsume(err))
}

func TestUseAfterConsume(t *testing.T) {
	uses := map[string]func(h *Term) *Term{
		"call":      func(h *Term) *Term { return h.Add(1) },
		"construct": func(h *Term) *Term { return Construct(term.KindCount, h) },
		"array":     func(h *Term) *Term { return Array(h) },
		"slice":     func(h *Term) *Term { return Expr([]*Term{h}) },
		"optarg":    func(h *Term) *Term { return Table("t", OptArg("k", h)) },
		"copy":      func(h *Term) *Term { return h.Copy() },
		"keep":      func(h *Term) *Term { return h.Keep().Term() },
		"expr":      func(h *Term) *Term { return Expr(h) },
	}

	for name, use := range uses {
		t.Run(name, func(t *testing.T) {
			h := Expr(1).Add(2)
			_ = Construct(term.KindCount, h)

			// Every later use fails, not just the first.
			for i := 0; i < 3; i++ {
				_, err := Catch(func() *Term { return use(h) })
				require.Error(t, err)
				assert.True(t, IsUseAfterConsume(err))
			}
		})
	}
}

func TestUseAfterConsume_Panics(t *testing.T) {
	h := Expr(1)
	_ = h.Add(2)

	assert.Panics(t, func() { h.Add(3) })
	assert.Panics(t, func() { h.Kind() })
	assert.Panics(t, func() { h.Build() })
}

func TestUseAfterConsume_SelfArgument(t *testing.T) {
	h := Expr(1)
	_, err := Catch(func() *Term { return h.Add(h) })
	assert.True(t, IsUseAfterConsume(err))
}

func TestUseAfterConsume_NilHandle(t *testing.T) {
	var h *Term
	assert.True(t, h.Consumed())

	_, err := Catch(func() *Term { return h.Add(1) })
	assert.True(t, IsUseAfterConsume(err))

	_, err = Catch(func() *Term { return nil })
	assert.True(t, IsUseAfterConsume(err))
}

func TestCopy_TwoIndependentUses(t *testing.T) {
	h := Expr(1).Add(2)
	dup := h.Copy()

	root, err := Catch(func() *Term { return h.Mul(dup) })
	require.NoError(t, err)

	left, right := root.Arg(0), root.Arg(1)
	assert.True(t, left.Equal(right))
	assert.NotSame(t, left, right)
	assert.NotSame(t, left.Arg(0), right.Arg(0))
	assert.True(t, term.Verify(root).Valid)
}

func TestCopy_LeavesOriginalUsable(t *testing.T) {
	h := Expr("a")
	c1 := h.Copy()
	c2 := h.Copy()
	assert.False(t, h.Consumed())

	root := Array(c1, c2, h).Build()
	assert.Equal(t, `[2,["a","a","a"]]`, wire(t, root))
}

func TestDurable_EachUseIsACopy(t *testing.T) {
	d := Expr(1).Add(2).Keep()

	root := Construct(term.KindMul, d, d, d.Term()).Build()
	require.Equal(t, 3, root.NumArgs())
	for i := 1; i < 3; i++ {
		assert.True(t, root.Arg(0).Equal(root.Arg(i)))
		assert.NotSame(t, root.Arg(0), root.Arg(i))
	}
	assert.True(t, term.Verify(root).Valid)
	assert.Equal(t, term.KindAdd, d.Kind())
	assert.Equal(t, `[24,[1,2]]`, d.String())
}

func TestDuplicateOptArg(t *testing.T) {
	_, err := Catch(func() *Term {
		return Construct(term.KindTable, "t", OptArg("mode", 1), OptArg("mode", 2))
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateOptArg(err))

	var dup *term.DuplicateOptArgError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "mode", dup.Key)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, term.KindTable, be.Kind)
}

func TestDistinctOptArgs(t *testing.T) {
	root := Expr(1).Filter(Fun0(true), OptArg("default", false), OptArg("x", Null())).Build()
	assert.Equal(t, []string{"default", "x"}, root.OptArgKeys())
}

func TestDatumChildrenRejected(t *testing.T) {
	_, err := Catch(func() *Term { return Construct(term.KindDatum, 1) })
	require.Error(t, err)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrCodeInvalidTerm, be.Code)
	assert.ErrorIs(t, err, term.ErrDatumChildren)
}

func TestCatch_PartialTreeDiscarded(t *testing.T) {
	x := Expr(1)
	root, err := Catch(func() *Term { return Construct(term.KindAdd, x, struct{}{}) })
	assert.Nil(t, root)
	assert.True(t, IsUnsupportedValue(err))
	assert.True(t, x.Consumed())
}

func TestCatch_OtherPanicsPropagate(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = Catch(func() *Term { panic("boom") })
	})
}

func TestKind_DoesNotConsume(t *testing.T) {
	h := Expr(1).Gt(0)
	assert.Equal(t, term.KindGt, h.Kind())
	assert.False(t, h.Consumed())
}

func TestBuildError_Message(t *testing.T) {
	err := &BuildError{Code: ErrCodeDuplicateOptArg, Message: `optarg "k" given more than once`, Kind: term.KindTable}
	assert.Equal(t, `DUPLICATE_OPTARG: optarg "k" given more than once (building TABLE)`, err.Error())

	err = errConsumed()
	assert.Equal(t, "USE_AFTER_CONSUME: term handle already consumed", err.Error())
}

func TestTry_ReturnsHandle(t *testing.T) {
	h, err := Try(func() *Term { return Expr(1).Add(2) })
	require.NoError(t, err)
	assert.Equal(t, term.KindAdd, h.Kind())

	h, err = Try(func() *Term { return Expr(struct{}{}) })
	assert.Nil(t, h)
	assert.True(t, IsUnsupportedValue(err))
}
