package r

import (
	"github.com/abreit/rethinkdb/internal/datum"
	"github.com/abreit/rethinkdb/internal/term"
)

// Pair is a named argument. Create one with OptArg.
type Pair struct {
	Key   string
	Value any
}

// OptArg pairs a name with a value for use as a named argument.
// The value is lifted like any other argument when the pair is attached.
func OptArg(key string, value any) Pair {
	return Pair{Key: key, Value: value}
}

// lift converts a Go value into a term node.
func lift(v any) *term.Term {
	switch val := v.(type) {
	case *Term:
		return val.take()
	case *Durable:
		if val == nil {
			panic(errUnsupported(v, "nil durable"))
		}
		return val.node.Copy()
	case Var:
		return varNode(val.ID)
	case bool:
		return Boolean(val).take()
	case datum.Datum:
		d, err := datum.From(val)
		if err != nil {
			panic(errUnsupported(v, err.Error()))
		}
		return term.NewDatum(datum.Copy(d))
	case []*Term:
		arr := term.New(term.KindMakeArray)
		for _, elem := range val {
			appendLifted(arr, elem)
		}
		return arr
	case []any:
		arr := term.New(term.KindMakeArray)
		for _, elem := range val {
			appendLifted(arr, elem)
		}
		return arr
	case Pair:
		panic(errUnsupported(v, "named argument outside an argument list"))
	case nil, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		d, err := datum.From(val)
		if err != nil {
			panic(errUnsupported(v, err.Error()))
		}
		return term.NewDatum(d)
	default:
		panic(errUnsupported(v, ""))
	}
}

func appendLifted(arr *term.Term, elem any) {
	if err := arr.AppendArg(lift(elem)); err != nil {
		panic(fromTermError(arr.Kind(), err))
	}
}
