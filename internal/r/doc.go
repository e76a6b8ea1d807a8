// Package r builds term trees with ordinary Go expressions.
//
// A *Term is a single-use handle around one term node. Passing a handle to
// any building operation consumes it: the node moves into the new parent and
// the handle is emptied. Using an emptied handle again panics with a
// *BuildError, so a subtree can never end up under two parents.
//
//	x := r.NewVar(ids)
//	inc := r.Fun1(x, x.Ref().Add(1))         // FUNC([x], ADD(VAR(x), 1))
//	q := r.Array(1, 2, 3).Map(inc).Count()   // COUNT(MAP(MAKE_ARRAY(1,2,3), inc))
//	root := q.Build()                        // q is consumed here
//
// To use one subtree in two places, either take a deep copy before each use
// with Copy, or convert the handle once with Keep into a *Durable, which
// contributes a fresh copy every time it is used as an argument.
//
// Arguments are lifted by their Go type:
//
//	numbers, strings, nil   DATUM literal
//	bool                    DATUM literal via Boolean
//	datum.Datum             DATUM literal embedding the value verbatim
//	*Term                   the handle's node (consumes the handle)
//	*Durable                a deep copy of the durable node
//	Var                     VAR reference
//	[]*Term, []any          MAKE_ARRAY of the lifted elements, in order
//	Pair (from OptArg)      named argument; duplicate names panic
//
// Any other type panics with ErrCodeUnsupportedValue. Misuse is a programmer
// error, reported at the offending call; Catch converts those panics into
// an error for callers assembling trees from untrusted input.
package r
