package term

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies the operation a Term performs.
// Values are the ql2 wire numbers; the set is closed.
type Kind int32

const (
	KindDatum       Kind = 1
	KindMakeArray   Kind = 2
	KindMakeObj     Kind = 3
	KindVar         Kind = 10
	KindError       Kind = 12
	KindImplicitVar Kind = 13
	KindDB          Kind = 14
	KindTable       Kind = 15
	KindGet         Kind = 16
	KindEq          Kind = 17
	KindNe          Kind = 18
	KindLt          Kind = 19
	KindLe          Kind = 20
	KindGt          Kind = 21
	KindGe          Kind = 22
	KindNot         Kind = 23
	KindAdd         Kind = 24
	KindSub         Kind = 25
	KindMul         Kind = 26
	KindDiv         Kind = 27
	KindMod         Kind = 28
	KindGetField    Kind = 31
	KindHasFields   Kind = 32
	KindPluck       Kind = 33
	KindWithout     Kind = 34
	KindMerge       Kind = 35
	KindMap         Kind = 38
	KindFilter      Kind = 39
	KindOrderBy     Kind = 41
	KindDistinct    Kind = 42
	KindCount       Kind = 43
	KindNth         Kind = 45
	KindFuncall     Kind = 64
	KindBranch      Kind = 65
	KindOr          Kind = 66
	KindAnd         Kind = 67
	KindFunc        Kind = 69
	KindDefault     Kind = 92
)

var kindNames = map[Kind]string{
	KindDatum:       "DATUM",
	KindMakeArray:   "MAKE_ARRAY",
	KindMakeObj:     "MAKE_OBJ",
	KindVar:         "VAR",
	KindError:       "ERROR",
	KindImplicitVar: "IMPLICIT_VAR",
	KindDB:          "DB",
	KindTable:       "TABLE",
	KindGet:         "GET",
	KindEq:          "EQ",
	KindNe:          "NE",
	KindLt:          "LT",
	KindLe:          "LE",
	KindGt:          "GT",
	KindGe:          "GE",
	KindNot:         "NOT",
	KindAdd:         "ADD",
	KindSub:         "SUB",
	KindMul:         "MUL",
	KindDiv:         "DIV",
	KindMod:         "MOD",
	KindGetField:    "GET_FIELD",
	KindHasFields:   "HAS_FIELDS",
	KindPluck:       "PLUCK",
	KindWithout:     "WITHOUT",
	KindMerge:       "MERGE",
	KindMap:         "MAP",
	KindFilter:      "FILTER",
	KindOrderBy:     "ORDER_BY",
	KindDistinct:    "DISTINCT",
	KindCount:       "COUNT",
	KindNth:         "NTH",
	KindFuncall:     "FUNCALL",
	KindBranch:      "BRANCH",
	KindOr:          "OR",
	KindAnd:         "AND",
	KindFunc:        "FUNC",
	KindDefault:     "DEFAULT",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the wire name of the kind, e.g. "GET_FIELD".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

// Valid reports whether k is a member of the closed kind enumeration.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind looks up a kind by name. Matching is case-insensitive, so both
// "GET_FIELD" and "get_field" resolve.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindsByName[strings.ToUpper(name)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown term kind %q", name)
}

// Kinds returns every valid kind in ascending wire order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
