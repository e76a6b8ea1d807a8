package term

import (
	"fmt"
	"math"

	"github.com/abreit/rethinkdb/internal/datum"
)

// Result contains the structural analysis of a term tree.
type Result struct {
	// Valid is true when no problems were found.
	Valid bool

	// Problems lists every structural defect, each prefixed with the path
	// of the offending node (e.g. "$.args[1].optargs[\"index\"]").
	Problems []string
}

// Verify checks that a term tree is well-formed.
//
// Only structure is checked, never query semantics:
//  1. No nil nodes
//  2. No node reachable from two parents (or twice from one)
//  3. DATUM nodes carry a value and no children; other nodes carry no value
//  4. Every kind belongs to the closed enumeration
//  5. FUNC is [MAKE_ARRAY of integer ids, body]; VAR is [integer id]
//
// Verify does not fail fast; all problems are collected.
func Verify(t *Term) Result {
	v := &verifier{
		seen:     make(map[*Term]string),
		problems: []string{},
	}
	v.visit(t, "$")

	return Result{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// verifier accumulates problems during traversal.
type verifier struct {
	seen     map[*Term]string
	problems []string
}

func (v *verifier) addProblem(path, format string, args ...any) {
	v.problems = append(v.problems, path+": "+fmt.Sprintf(format, args...))
}

func (v *verifier) visit(t *Term, path string) {
	if t == nil {
		v.addProblem(path, "nil term")
		return
	}
	if first, dup := v.seen[t]; dup {
		v.addProblem(path, "node already attached at %s", first)
		return
	}
	v.seen[t] = path

	if !t.kind.Valid() {
		v.addProblem(path, "unknown kind %d", int32(t.kind))
	}

	if t.kind == KindDatum {
		if t.datum == nil {
			v.addProblem(path, "DATUM without a value")
		} else if _, err := datum.From(t.datum); err != nil {
			v.addProblem(path, "DATUM value: %v", err)
		}
		if len(t.args) > 0 || len(t.optArgs) > 0 {
			v.addProblem(path, "DATUM with children")
		}
		return
	}
	if t.datum != nil {
		v.addProblem(path, "%s carries a literal value", t.kind)
	}

	switch t.kind {
	case KindFunc:
		v.verifyFunc(t, path)
	case KindVar:
		v.verifyVar(t, path)
	}

	for i, arg := range t.args {
		v.visit(arg, fmt.Sprintf("%s.args[%d]", path, i))
	}
	for _, k := range t.OptArgKeys() {
		v.visit(t.optArgs[k], fmt.Sprintf("%s.optargs[%q]", path, k))
	}
}

func (v *verifier) verifyFunc(t *Term, path string) {
	if len(t.args) != 2 {
		v.addProblem(path, "FUNC needs a parameter list and a body, got %d args", len(t.args))
		return
	}
	params := t.args[0]
	if params == nil || params.kind != KindMakeArray {
		v.addProblem(path, "FUNC parameter list must be MAKE_ARRAY")
		return
	}
	for i, p := range params.args {
		if !isVarID(p) {
			v.addProblem(path, "FUNC parameter %d is not an integer id", i)
		}
	}
}

func (v *verifier) verifyVar(t *Term, path string) {
	if len(t.args) != 1 || !isVarID(t.args[0]) {
		v.addProblem(path, "VAR must have exactly one integer id argument")
	}
}

func isVarID(t *Term) bool {
	if t == nil || t.kind != KindDatum {
		return false
	}
	n, ok := t.datum.(datum.Num)
	return ok && float64(n) == math.Trunc(float64(n)) && n >= 0
}
