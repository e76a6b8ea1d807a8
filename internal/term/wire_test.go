package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/datum"
)

func TestEncode(t *testing.T) {
	pluck := build(t, KindPluck, build(t, KindDB, str("test")), str("name"))
	require.NoError(t, pluck.SetOptArg("x", NewDatum(datum.Bool(true))))

	tests := []struct {
		name     string
		term     *Term
		expected string
	}{
		{"number", num(1.5), `1.5`},
		{"null", NewDatum(datum.Null{}), `null`},
		{"add", build(t, KindAdd, num(1), num(2)), `[24,[1,2]]`},
		{"no args", New(KindImplicitVar), `[13,[]]`},
		{"datum array", NewDatum(datum.Array{datum.Num(1), datum.Str("a")}), `[2,[1,"a"]]`},
		{"nested datum", NewDatum(datum.Object{"a": datum.Array{datum.Num(1)}}), `{"a":[2,[1]]}`},
		{"optargs", pluck, `[33,[[14,["test"]],"name"],{"x":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrNilTerm)

	_, err = Encode(New(Kind(4)))
	assert.Error(t, err)

	bad := New(KindAdd)
	bad.args = append(bad.args, &Term{kind: KindDatum})
	_, err = Encode(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADD arg 0")
}

func TestEncodeCanonicalSortsOptArgs(t *testing.T) {
	term := New(KindTable)
	require.NoError(t, term.SetOptArg("zeta", num(1)))
	require.NoError(t, term.SetOptArg("alpha", str("<&>")))

	data, err := EncodeCanonical(term)
	require.NoError(t, err)
	assert.Equal(t, `[15,[],{"alpha":"<&>","zeta":1}]`, string(data))
}

func TestDecodeRoundTrip(t *testing.T) {
	fn := build(t, KindFunc,
		build(t, KindMakeArray, num(1)),
		build(t, KindAdd, build(t, KindVar, num(1)), num(1)),
	)
	branch := build(t, KindBranch,
		build(t, KindGt, num(2), num(1)),
		str("yes"),
		build(t, KindError, str("no")),
	)
	getField := build(t, KindGetField, NewDatum(datum.Object{"a": datum.Num(1)}), str("a"))
	require.NoError(t, getField.SetOptArg("default", NewDatum(datum.Null{})))

	for _, orig := range []*Term{fn, branch, getField} {
		data, err := Encode(orig)
		require.NoError(t, err)

		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.True(t, orig.Equal(decoded), "round trip of %s gave %s", orig, decoded)
	}
}

func TestDecodeNormalizesDatumArray(t *testing.T) {
	lit := NewDatum(datum.Array{datum.Num(1), datum.Num(2)})

	data, err := Encode(lit)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, KindMakeArray, decoded.Kind())
	require.Equal(t, 2, decoded.NumArgs())
	assert.Equal(t, datum.Num(2), decoded.Arg(1).Datum())

	// Same wire form either way
	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestDecodeObjectLiteralUnwrapsArrays(t *testing.T) {
	decoded, err := Decode([]byte(`{"tags":[2,["a","b"]],"n":{"m":[2,[]]}}`))
	require.NoError(t, err)

	expected := datum.Object{
		"tags": datum.Array{datum.Str("a"), datum.Str("b")},
		"n":    datum.Object{"m": datum.Array{}},
	}
	assert.Equal(t, KindDatum, decoded.Kind())
	assert.True(t, datum.Equal(expected, decoded.Datum()), "got %#v", decoded.Datum())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `[24,`},
		{"short array", `[24]`},
		{"long array", `[24,[],{},1]`},
		{"kind not a number", `["ADD",[]]`},
		{"fractional kind", `[24.5,[]]`},
		{"unknown kind", `[4,[]]`},
		{"datum kind", `[1,[2]]`},
		{"args not array", `[24,{}]`},
		{"optargs not object", `[24,[],[]]`},
		{"raw array in literal", `{"a":[1,2]}`},
		{"wrong kind in literal", `{"a":[24,[1,2]]}`},
		{"bad nested arg", `[24,[[99,[]]]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}
