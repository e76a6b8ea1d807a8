package term

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abreit/rethinkdb/internal/datum"
)

var (
	// ErrNilTerm is returned when a nil child is appended.
	ErrNilTerm = errors.New("nil term")

	// ErrDatumChildren is returned when a child is appended to a DATUM node.
	ErrDatumChildren = errors.New("DATUM terms cannot have children")
)

// DuplicateOptArgError is returned by SetOptArg when the key is already present.
type DuplicateOptArgError struct {
	Key  string
	Kind Kind
}

func (e *DuplicateOptArgError) Error() string {
	return fmt.Sprintf("duplicate optarg %q on %s term", e.Key, e.Kind)
}

// Term is a node in an expression tree.
//
// The kind is fixed at construction. Positional and named arguments only grow,
// and only by attaching complete sub-trees.
type Term struct {
	kind    Kind
	datum   datum.Datum // set only when kind == KindDatum
	args    []*Term
	optArgs map[string]*Term
}

// New creates an empty term of the given kind.
// Use NewDatum for DATUM terms.
func New(kind Kind) *Term {
	return &Term{kind: kind}
}

// NewDatum creates a DATUM term wrapping d. A nil d is stored as null.
func NewDatum(d datum.Datum) *Term {
	if d == nil {
		d = datum.Null{}
	}
	return &Term{kind: KindDatum, datum: d}
}

// Kind returns the term's kind.
func (t *Term) Kind() Kind {
	return t.kind
}

// Datum returns the wrapped value of a DATUM term, or nil for any other kind.
func (t *Term) Datum() datum.Datum {
	return t.datum
}

// Args returns the positional arguments in order.
// The returned slice is a copy; appending to it does not change the term.
func (t *Term) Args() []*Term {
	return slices.Clone(t.args)
}

// NumArgs returns the number of positional arguments.
func (t *Term) NumArgs() int {
	return len(t.args)
}

// Arg returns the i-th positional argument.
func (t *Term) Arg(i int) *Term {
	return t.args[i]
}

// OptArg returns the named argument for key.
func (t *Term) OptArg(key string) (*Term, bool) {
	v, ok := t.optArgs[key]
	return v, ok
}

// NumOptArgs returns the number of named arguments.
func (t *Term) NumOptArgs() int {
	return len(t.optArgs)
}

// OptArgKeys returns the named argument keys in sorted order.
func (t *Term) OptArgKeys() []string {
	keys := make([]string, 0, len(t.optArgs))
	for k := range t.optArgs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// AppendArg attaches child as the next positional argument.
func (t *Term) AppendArg(child *Term) error {
	if child == nil {
		return fmt.Errorf("append to %s: %w", t.kind, ErrNilTerm)
	}
	if t.kind == KindDatum {
		return ErrDatumChildren
	}
	t.args = append(t.args, child)
	return nil
}

// SetOptArg attaches child under key. Inserting a key that is already
// present fails with *DuplicateOptArgError and leaves the term unchanged.
func (t *Term) SetOptArg(key string, child *Term) error {
	if child == nil {
		return fmt.Errorf("optarg %q on %s: %w", key, t.kind, ErrNilTerm)
	}
	if t.kind == KindDatum {
		return ErrDatumChildren
	}
	if _, exists := t.optArgs[key]; exists {
		return &DuplicateOptArgError{Key: key, Kind: t.kind}
	}
	if t.optArgs == nil {
		t.optArgs = make(map[string]*Term)
	}
	t.optArgs[key] = child
	return nil
}

// Copy returns a deep copy of t. The copy shares no nodes or datums with t.
func (t *Term) Copy() *Term {
	if t == nil {
		return nil
	}
	cp := &Term{kind: t.kind}
	if t.datum != nil {
		cp.datum = datum.Copy(t.datum)
	}
	if len(t.args) > 0 {
		cp.args = make([]*Term, len(t.args))
		for i, arg := range t.args {
			cp.args[i] = arg.Copy()
		}
	}
	if len(t.optArgs) > 0 {
		cp.optArgs = make(map[string]*Term, len(t.optArgs))
		for k, v := range t.optArgs {
			cp.optArgs[k] = v.Copy()
		}
	}
	return cp
}

// Equal reports whether t and other are structurally identical trees.
func (t *Term) Equal(other *Term) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.kind != other.kind || len(t.args) != len(other.args) || len(t.optArgs) != len(other.optArgs) {
		return false
	}
	if t.kind == KindDatum && !datum.Equal(t.datum, other.datum) {
		return false
	}
	for i := range t.args {
		if !t.args[i].Equal(other.args[i]) {
			return false
		}
	}
	for k, v := range t.optArgs {
		ov, ok := other.optArgs[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Walk visits t and its descendants in pre-order: positional arguments
// first, then named arguments in sorted key order. Returning false from fn
// skips the children of the current node.
func (t *Term) Walk(fn func(*Term) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, arg := range t.args {
		arg.Walk(fn)
	}
	for _, k := range t.OptArgKeys() {
		t.optArgs[k].Walk(fn)
	}
}

// String renders the term as its wire JSON, or a placeholder if it cannot
// be encoded.
func (t *Term) String() string {
	data, err := Encode(t)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", t.kind, err)
	}
	return string(data)
}
