package term

import (
	"fmt"
	"math"

	"github.com/abreit/rethinkdb/internal/datum"
)

// Encode marshals t to ReQL JSON wire form.
func Encode(t *Term) ([]byte, error) {
	w, err := ToWire(t)
	if err != nil {
		return nil, err
	}
	return datum.MarshalDatum(w)
}

// EncodeCanonical marshals t to canonical (RFC 8785) wire JSON.
// Use this form for hashing and storage.
func EncodeCanonical(t *Term) ([]byte, error) {
	w, err := ToWire(t)
	if err != nil {
		return nil, err
	}
	return datum.MarshalCanonical(w)
}

// ToWire converts t to the wire form expressed as a datum tree.
func ToWire(t *Term) (datum.Datum, error) {
	if t == nil {
		return nil, ErrNilTerm
	}

	if t.kind == KindDatum {
		if t.datum == nil {
			return nil, fmt.Errorf("DATUM term without a value")
		}
		return datumToWire(t.datum), nil
	}

	if !t.kind.Valid() {
		return nil, fmt.Errorf("unknown term kind %d", int32(t.kind))
	}

	args := make(datum.Array, len(t.args))
	for i, arg := range t.args {
		w, err := ToWire(arg)
		if err != nil {
			return nil, fmt.Errorf("%s arg %d: %w", t.kind, i, err)
		}
		args[i] = w
	}

	out := datum.Array{datum.Num(t.kind), args}
	if len(t.optArgs) > 0 {
		opts := make(datum.Object, len(t.optArgs))
		for k, v := range t.optArgs {
			w, err := ToWire(v)
			if err != nil {
				return nil, fmt.Errorf("%s optarg %q: %w", t.kind, k, err)
			}
			opts[k] = w
		}
		out = append(out, opts)
	}
	return out, nil
}

// datumToWire wraps every array inside d as a MAKE_ARRAY so that the
// receiver never mistakes a literal array for a term.
func datumToWire(d datum.Datum) datum.Datum {
	switch val := d.(type) {
	case datum.Array:
		elems := make(datum.Array, len(val))
		for i, elem := range val {
			elems[i] = datumToWire(elem)
		}
		return datum.Array{datum.Num(KindMakeArray), elems}
	case datum.Object:
		obj := make(datum.Object, len(val))
		for k, v := range val {
			obj[k] = datumToWire(v)
		}
		return obj
	default:
		return d
	}
}

// Decode parses ReQL JSON wire form into a term tree.
func Decode(data []byte) (*Term, error) {
	w, err := datum.UnmarshalDatum(data)
	if err != nil {
		return nil, fmt.Errorf("decode term: %w", err)
	}
	return FromWire(w)
}

// FromWire converts a wire-form datum tree into a term tree.
func FromWire(w datum.Datum) (*Term, error) {
	switch val := w.(type) {
	case datum.Array:
		return termFromWire(val)
	case datum.Object:
		d, err := datumFromWire(val)
		if err != nil {
			return nil, err
		}
		return NewDatum(d), nil
	case nil:
		return nil, ErrNilTerm
	default:
		return NewDatum(val), nil
	}
}

func termFromWire(arr datum.Array) (*Term, error) {
	if len(arr) < 2 || len(arr) > 3 {
		return nil, fmt.Errorf("term array must have 2 or 3 elements, got %d", len(arr))
	}

	kind, err := kindFromWire(arr[0])
	if err != nil {
		return nil, err
	}
	if kind == KindDatum {
		return nil, fmt.Errorf("DATUM must be encoded as a bare value")
	}

	args, ok := arr[1].(datum.Array)
	if !ok {
		return nil, fmt.Errorf("%s args must be an array, got %s", kind, datum.TypeName(arr[1]))
	}

	t := New(kind)
	for i, a := range args {
		child, err := FromWire(a)
		if err != nil {
			return nil, fmt.Errorf("%s arg %d: %w", kind, i, err)
		}
		t.args = append(t.args, child)
	}

	if len(arr) == 3 {
		opts, ok := arr[2].(datum.Object)
		if !ok {
			return nil, fmt.Errorf("%s optargs must be an object, got %s", kind, datum.TypeName(arr[2]))
		}
		for _, k := range opts.SortedKeys() {
			child, err := FromWire(opts[k])
			if err != nil {
				return nil, fmt.Errorf("%s optarg %q: %w", kind, k, err)
			}
			if err := t.SetOptArg(k, child); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func kindFromWire(d datum.Datum) (Kind, error) {
	n, ok := d.(datum.Num)
	if !ok {
		return 0, fmt.Errorf("term kind must be a number, got %s", datum.TypeName(d))
	}
	f := float64(n)
	if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("term kind must be a small integer, got %v", f)
	}
	kind := Kind(f)
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown term kind %d", int32(kind))
	}
	return kind, nil
}

// datumFromWire unwraps MAKE_ARRAY encodings inside a literal object.
func datumFromWire(d datum.Datum) (datum.Datum, error) {
	switch val := d.(type) {
	case datum.Array:
		if len(val) != 2 {
			return nil, fmt.Errorf("array inside a literal must be MAKE_ARRAY")
		}
		kind, err := kindFromWire(val[0])
		if err != nil || kind != KindMakeArray {
			return nil, fmt.Errorf("array inside a literal must be MAKE_ARRAY")
		}
		elems, ok := val[1].(datum.Array)
		if !ok {
			return nil, fmt.Errorf("MAKE_ARRAY args must be an array")
		}
		out := make(datum.Array, len(elems))
		for i, elem := range elems {
			e, err := datumFromWire(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = e
		}
		return out, nil
	case datum.Object:
		out := make(datum.Object, len(val))
		for k, v := range val {
			e, err := datumFromWire(v)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = e
		}
		return out, nil
	default:
		return d, nil
	}
}
