package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abreit/rethinkdb/internal/compiler"
	"github.com/abreit/rethinkdb/internal/gensym"
	"github.com/abreit/rethinkdb/internal/store"
	"github.com/abreit/rethinkdb/internal/term"
)

// Harness runs one scenario against a private catalog with a deterministic
// identifier sequence.
type Harness struct {
	store  *store.Store
	ids    *gensym.Sequence
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory catalog for isolation.
//
// Execution flow:
// 1. Compile the query with identifiers starting after IDStart
// 2. Check the compile outcome against expect.error
// 3. Verify the tree and round-trip it through the catalog
// 4. Check expect.wire, expect.hash and assertions
//
// The returned error reports harness failures only; scenario failures are
// recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		ids:    gensym.NewSequence(scenario.IDStart),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()
	expect := scenario.Expect
	if expect == nil {
		expect = &ExpectClause{}
	}

	root, err := h.compile(scenario)
	if err != nil {
		var ce *compiler.CompileError
		if !errors.As(err, &ce) {
			return nil, fmt.Errorf("compile %s: %w", scenario.Name, err)
		}
		result.ErrorCode = ce.Code
		if expect.Error != ce.Code {
			result.AddError(fmt.Sprintf("compile failed: %v", err))
		}
		return result, nil
	}
	if expect.Error != "" {
		result.AddError(fmt.Sprintf("expected compile error %s, query compiled", expect.Error))
	}

	result.RootKind = root.Kind().String()
	wire, err := term.EncodeCanonical(root)
	if err != nil {
		result.AddError(fmt.Sprintf("encode: %v", err))
		return result, nil
	}
	result.Wire = string(wire)
	result.Hash = term.MustHash(root)

	if res := term.Verify(root); !res.Valid {
		for _, p := range res.Problems {
			result.AddError("verify: " + p)
		}
		return result, nil
	}

	if err := h.roundTrip(ctx, scenario.Name, root); err != nil {
		result.AddError(err.Error())
	}

	if expect.Wire != "" && expect.Wire != result.Wire {
		result.AddError(fmt.Sprintf("wire mismatch:\n  expected: %s\n  actual:   %s", expect.Wire, result.Wire))
	}
	if expect.Hash != "" && expect.Hash != result.Hash {
		result.AddError(fmt.Sprintf("hash mismatch: expected %s, got %s", expect.Hash, result.Hash))
	}

	for _, a := range scenario.Assertions {
		if err := evaluateAssertion(root, a); err != nil {
			result.AddError(err.Error())
		}
	}

	h.logger.Debug("scenario complete",
		"name", scenario.Name,
		"pass", result.Pass,
		"hash", result.Hash,
	)
	return result, nil
}

// compile builds the scenario's single query.
func (h *Harness) compile(scenario *Scenario) (*term.Term, error) {
	src := "query: scenario: " + scenario.Query
	queries, err := compiler.CompileSource(scenario.Name+".cue", []byte(src), h.ids)
	if err != nil {
		return nil, err
	}
	return queries[0].Root, nil
}

// roundTrip saves root and checks the catalog returns the same wire form.
func (h *Harness) roundTrip(ctx context.Context, name string, root *term.Term) error {
	if _, err := h.store.SaveQuery(ctx, name, root); err != nil {
		return fmt.Errorf("catalog save: %w", err)
	}
	rec, err := h.store.LatestQuery(ctx, name)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}
	stored, err := rec.Term()
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}
	// Literal arrays decode as MAKE_ARRAY, so compare wire forms rather
	// than node structure.
	storedHash, err := term.Hash(stored)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}
	if storedHash != rec.Hash {
		return fmt.Errorf("catalog round-trip changed the tree: stored %s, built %s", stored, root)
	}
	return nil
}
