package datum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"
)

// Datum is a sealed interface representing a resolved runtime value.
// Only Null, Num, Str, Bool, Array, and Object implement this.
type Datum interface {
	datum() // Sealed - only these types implement it
}

// Null represents a JSON null value.
// Using an explicit type ensures all Datums satisfy the sealed interface.
type Null struct{}

func (Null) datum() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Num represents a number. All numbers are float64, matching the wire protocol.
type Num float64

func (Num) datum() {}

// Str represents a string value.
type Str string

func (Str) datum() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) datum() {}

// Array represents an ordered sequence of Datum elements.
type Array []Datum

func (Array) datum() {}

// Object represents a map of string keys to Datum elements.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Datum

func (Object) datum() {}

// Pair represents a key-value pair for Object construction.
type Pair struct {
	Key   string
	Value Datum
}

// O is a shorthand for Pair.
// Example: NewObject(O("name", Str("cart")), O("count", Num(5)))
func O(key string, value Datum) Pair {
	return Pair{Key: key, Value: value}
}

// NewArray creates an Array from values.
func NewArray(vals ...Datum) Array {
	return Array(vals)
}

// NewObject creates an Object from key-value pairs.
// A later pair with the same key replaces an earlier one.
func NewObject(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// TypeName returns the wire type name of a datum: NULL, NUMBER, STRING,
// BOOL, ARRAY or OBJECT.
func TypeName(d Datum) string {
	switch d.(type) {
	case Null:
		return "NULL"
	case Num:
		return "NUMBER"
	case Str:
		return "STRING"
	case Bool:
		return "BOOL"
	case Array:
		return "ARRAY"
	case Object:
		return "OBJECT"
	default:
		return fmt.Sprintf("%T", d)
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings orders by UTF-8 bytes, which differs for astral characters.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// Shorter string comes first when it is a prefix of the longer one
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Equal reports whether two datums are structurally equal.
// Object key order is irrelevant; array order is significant.
func Equal(a, b Datum) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Num:
		y, ok := b.(Num)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Copy returns a deep copy of d. Scalars are returned as-is.
func Copy(d Datum) Datum {
	switch val := d.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Copy(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = Copy(elem)
		}
		return out
	default:
		return d
	}
}

// From converts a Go value to a Datum.
// Accepts nil, bool, string, every integer and float kind, []any,
// map[string]any and existing Datums. Non-finite floats are rejected.
func From(v any) (Datum, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Datum:
		if err := check(val); err != nil {
			return nil, err
		}
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case int:
		return fromInt(int64(val))
	case int8:
		return Num(val), nil
	case int16:
		return Num(val), nil
	case int32:
		return Num(val), nil
	case int64:
		return fromInt(val)
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Num(val), nil
	case uint16:
		return Num(val), nil
	case uint32:
		return Num(val), nil
	case uint64:
		return fromUint(val)
	case json.Number:
		return fromJSONNumber(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			d, err := From(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = d
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			d, err := From(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = d
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func fromFloat(f float64) (Datum, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite number: %v", f)
	}
	return Num(f), nil
}

// fromInt rejects integers that do not survive the float64 round trip.
func fromInt(i int64) (Datum, error) {
	f := float64(i)
	if f >= 1<<63 || int64(f) != i {
		return nil, fmt.Errorf("integer %d cannot be represented exactly", i)
	}
	return Num(f), nil
}

func fromUint(u uint64) (Datum, error) {
	f := float64(u)
	if f >= 1<<64 || uint64(f) != u {
		return nil, fmt.Errorf("integer %d cannot be represented exactly", u)
	}
	return Num(f), nil
}

func fromJSONNumber(n json.Number) (Datum, error) {
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number out of range: %s", n)
	}
	return fromFloat(f)
}

// check walks d and rejects nil elements and NaN or infinite numbers.
func check(d Datum) error {
	switch val := d.(type) {
	case nil:
		return fmt.Errorf("nil value")
	case Num:
		_, err := fromFloat(float64(val))
		return err
	case Array:
		for i, elem := range val {
			if err := check(elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
	case Object:
		for k, elem := range val {
			if err := check(elem); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler for Object with sorted keys (RFC 8785 ordering).
// NOTE: This is NOT canonical marshaling. Use MarshalCanonical for hashing.
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalDatum(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalDatum(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalDatum marshals a Datum to JSON bytes.
func MarshalDatum(d Datum) ([]byte, error) {
	switch val := d.(type) {
	case Null:
		return []byte("null"), nil
	case Str:
		return json.Marshal(string(val))
	case Num:
		if _, err := fromFloat(float64(val)); err != nil {
			return nil, err
		}
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		return val.MarshalJSON()
	case Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Datum type: %T", d)
	}
}

// UnmarshalDatum decodes JSON into a Datum.
// Numbers are decoded through json.Number so integers above 2^53 fail loudly
// instead of silently losing precision on the way into float64.
func UnmarshalDatum(data []byte) (Datum, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return fromDecoded(raw)
}

// fromDecoded converts the output of a UseNumber decoder into a Datum.
func fromDecoded(v any) (Datum, error) {
	switch val := v.(type) {
	case json.Number:
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			// Integers must survive the float64 round trip exactly
			i, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("number out of range: %s", s)
			}
			return fromInt(i)
		}
		return fromJSONNumber(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			d, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = d
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			d, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = d
		}
		return obj, nil
	default:
		return From(v)
	}
}
