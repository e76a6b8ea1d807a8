// Package term provides the Term node: the tagged tree a query is built from.
//
// A Term has a Kind fixed at construction, an ordered list of positional
// arguments and a map of named arguments. Terms are plain data; the r package
// layers the single-use builder discipline on top.
//
// OWNERSHIP:
//
// A Term that has been appended to a parent (positionally or by name) belongs
// to that parent alone. Nothing in this package enforces that on its own;
// Verify reports any node reachable from two parents so that tooling can reject
// trees assembled by hand.
//
// WIRE FORMAT:
//
// Encode produces the ReQL JSON protocol form:
//
//	DATUM            -> the JSON value itself, arrays wrapped as [2,[...]]
//	everything else  -> [kind, [args...]] or [kind, [args...], {optargs}]
//
// Decode accepts the same form. Because a datum array and a MAKE_ARRAY of
// datums share one wire shape, decoding always yields MAKE_ARRAY.
//
// Hash is SHA-256 over the canonical (RFC 8785) wire form with a versioned
// domain prefix, so two structurally equal trees always share a hash.
package term
