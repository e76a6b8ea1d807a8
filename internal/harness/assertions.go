package harness

import (
	"fmt"
	"strings"

	"github.com/abreit/rethinkdb/internal/term"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Wire     string // Tree under test
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  Tree: %s", e.Wire)
	return buf.String()
}

// evaluateAssertion dispatches on the assertion type.
// Assertions are validated at load time, so kind names parse.
func evaluateAssertion(root *term.Term, a Assertion) error {
	switch a.Type {
	case AssertRootKind:
		return assertRootKind(root, a)
	case AssertArgCount:
		return assertArgCount(root, a)
	case AssertKindCount:
		return assertKindCount(root, a)
	case AssertOptArg:
		return assertOptArg(root, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRootKind(root *term.Term, a Assertion) error {
	want, err := term.ParseKind(a.Kind)
	if err != nil {
		return err
	}
	if root.Kind() == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertRootKind,
		Expected: want.String(),
		Actual:   root.Kind().String(),
		Wire:     root.String(),
	}
}

func assertArgCount(root *term.Term, a Assertion) error {
	if root.NumArgs() == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertArgCount,
		Expected: fmt.Sprintf("%d positional args", a.Count),
		Actual:   fmt.Sprintf("%d positional args", root.NumArgs()),
		Wire:     root.String(),
	}
}

func assertKindCount(root *term.Term, a Assertion) error {
	want, err := term.ParseKind(a.Kind)
	if err != nil {
		return err
	}
	count := 0
	root.Walk(func(n *term.Term) bool {
		if n.Kind() == want {
			count++
		}
		return true
	})
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertKindCount,
		Expected: fmt.Sprintf("%d %s nodes", a.Count, want),
		Actual:   fmt.Sprintf("%d %s nodes", count, want),
		Wire:     root.String(),
	}
}

func assertOptArg(root *term.Term, a Assertion) error {
	if _, ok := root.OptArg(a.Key); ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertOptArg,
		Expected: fmt.Sprintf("optarg %q", a.Key),
		Actual:   fmt.Sprintf("optargs %v", root.OptArgKeys()),
		Wire:     root.String(),
	}
}
