package r

import (
	"github.com/abreit/rethinkdb/internal/term"
)

// Term is a single-use handle owning one term node.
//
// Every building operation that receives a *Term takes its node and empties
// the handle. The zero value and nil are both treated as already consumed.
type Term struct {
	node *term.Term
}

func wrap(node *term.Term) *Term {
	return &Term{node: node}
}

// take moves the node out of the handle.
func (t *Term) take() *term.Term {
	if t == nil || t.node == nil {
		panic(errConsumed())
	}
	n := t.node
	t.node = nil
	return n
}

// peek returns the node without consuming the handle.
func (t *Term) peek() *term.Term {
	if t == nil || t.node == nil {
		panic(errConsumed())
	}
	return t.node
}

// Consumed reports whether the handle has been emptied.
func (t *Term) Consumed() bool {
	return t == nil || t.node == nil
}

// Kind returns the kind of the held node without consuming the handle.
func (t *Term) Kind() term.Kind {
	return t.peek().Kind()
}

// Build consumes the handle and returns the finished tree.
func (t *Term) Build() *term.Term {
	return t.take()
}

// Copy returns a new handle holding a deep copy of the node.
// The receiver stays usable.
func (t *Term) Copy() *Term {
	return wrap(t.peek().Copy())
}

// Keep consumes the handle and returns a durable reference to its node.
func (t *Term) Keep() *Durable {
	return &Durable{node: t.take()}
}

// String renders the held node in wire form, or "<consumed>".
func (t *Term) String() string {
	if t.Consumed() {
		return "<consumed>"
	}
	return t.node.String()
}

// Durable is a reusable reference to a finished subtree.
// Each use as an argument contributes an independent deep copy.
type Durable struct {
	node *term.Term
}

// Term returns a fresh single-use handle holding a copy of the subtree.
func (d *Durable) Term() *Term {
	return wrap(d.node.Copy())
}

// Kind returns the kind of the root node.
func (d *Durable) Kind() term.Kind {
	return d.node.Kind()
}

// String renders the subtree in wire form.
func (d *Durable) String() string {
	return d.node.String()
}

// Construct builds a term of the given kind. Positional arguments keep
// their order; Pair values from OptArg become named arguments. Every *Term
// argument is consumed.
func Construct(kind term.Kind, args ...any) *Term {
	node := term.New(kind)
	for _, arg := range args {
		attach(node, arg)
	}
	return wrap(node)
}

// Call builds a term of the given kind with the receiver as its first
// argument. The receiver is consumed before any other argument.
func (t *Term) Call(kind term.Kind, args ...any) *Term {
	all := make([]any, 0, len(args)+1)
	all = append(all, t)
	all = append(all, args...)
	return Construct(kind, all...)
}

// attach lifts arg and adds it to parent as a positional or named argument.
func attach(parent *term.Term, arg any) {
	if p, ok := arg.(Pair); ok {
		child := lift(p.Value)
		if err := parent.SetOptArg(p.Key, child); err != nil {
			panic(fromTermError(parent.Kind(), err))
		}
		return
	}
	child := lift(arg)
	if err := parent.AppendArg(child); err != nil {
		panic(fromTermError(parent.Kind(), err))
	}
}
