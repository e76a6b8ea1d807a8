// Package compiler turns declarative query documents into term trees.
//
// Documents are CUE (or YAML read through CUE) with one top-level struct:
//
//	query: adults: {
//		filter: [{table: ["users"]}, {fun: {params: ["u"], body: {
//			ge: [{get_field: [{var: "u"}, "age"]}, 18]
//		}}}]
//	}
//
// An expression is a literal (number, string, bool, null), a list, which
// becomes MAKE_ARRAY, or a struct holding exactly one operator:
//
//	datum: <value>              literal embedded verbatim, arrays included
//	var: "<name>"               reference to an enclosing fun parameter
//	fun: {params, body}         FUNC with zero to two named parameters
//	db: <expr>                  DB
//	error: <expr>               ERROR
//	branch: [test, then, else]  BRANCH
//	<kind>: [args...]           any term kind by lower-case name
//
// A <kind> operator may carry a sibling "opts" struct whose fields become
// named arguments. Every compiled tree is assembled through package r.
package compiler
