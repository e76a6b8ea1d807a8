package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abreit/rethinkdb/internal/term"
)

// Scenario defines a query-building test case.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is a CUE expression in the compiler's query grammar.
	Query string `yaml:"query"`

	// IDStart seeds the fresh-identifier sequence. The first fun parameter
	// gets IDStart+1.
	IDStart int64 `yaml:"id_start,omitempty"`

	// Expect specifies exact outcomes. Optional.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions check properties of the built tree.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies exact outcomes. Empty fields are not checked.
type ExpectClause struct {
	// Wire is the expected canonical wire JSON.
	Wire string `yaml:"wire,omitempty"`

	// Hash is the expected content hash.
	Hash string `yaml:"hash,omitempty"`

	// Error is the compile error code the query must fail with.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates one property of the built tree.
type Assertion struct {
	// Type specifies the assertion type:
	// - "root_kind": root kind equals Kind
	// - "arg_count": root has exactly Count positional args
	// - "kind_count": Kind occurs exactly Count times in the tree
	// - "optarg": root has a named argument Key
	Type string `yaml:"type"`

	// Kind is a term kind name, e.g. "MAP" (root_kind, kind_count).
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected number (arg_count, kind_count).
	Count int `yaml:"count,omitempty"`

	// Key is the named argument (optarg).
	Key string `yaml:"key,omitempty"`
}

// Assertion type constants.
const (
	AssertRootKind  = "root_kind"
	AssertArgCount  = "arg_count"
	AssertKindCount = "kind_count"
	AssertOptArg    = "optarg"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML held in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	if s.IDStart < 0 {
		return fmt.Errorf("id_start must be non-negative")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil && s.Expect.Error != "" {
		if s.Expect.Wire != "" || s.Expect.Hash != "" || len(s.Assertions) > 0 {
			return fmt.Errorf("expect.error cannot be combined with other expectations")
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRootKind, AssertKindCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for %s", index, a.Type)
		}
		if _, err := term.ParseKind(a.Kind); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertArgCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for arg_count", index)
		}
	case AssertOptArg:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for optarg", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
