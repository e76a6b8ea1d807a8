package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Query:       `{add: [1, 2]}`,
		Expect:      &ExpectClause{Wire: `[24,[1,2]]`},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "ADD", result.RootKind)
	assert.Len(t, result.Hash, 64)
}

func TestRun_WireMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expected wire",
		Query:       `{add: [1, 2]}`,
		Expect:      &ExpectClause{Wire: `[24,[2,1]]`},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "wire mismatch")
}

func TestRun_HashMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "hash",
		Description: "Wrong expected hash",
		Query:       `1`,
		Expect:      &ExpectClause{Hash: "0000"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "hash mismatch")
}

func TestRun_UnexpectedCompileError(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "Unknown operator",
		Query:       `{frobnicate: [1]}`,
		Assertions:  []Assertion{{Type: AssertRootKind, Kind: "ADD"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "C001", result.ErrorCode)
	assert.Empty(t, result.Wire)
}

func TestRun_ExpectedErrorButCompiled(t *testing.T) {
	scenario := &Scenario{
		Name:        "compiles",
		Description: "Expected an error",
		Query:       `{add: [1, 2]}`,
		Expect:      &ExpectClause{Error: "C003"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected compile error C003")
}

func TestRun_SyntaxErrorIsCompileError(t *testing.T) {
	scenario := &Scenario{
		Name:        "syntax",
		Description: "Broken CUE",
		Query:       `{add: [1, 2]`,
		Expect:      &ExpectClause{Error: "C006"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "C006", result.ErrorCode)
}

func TestRun_IDStart(t *testing.T) {
	scenario := &Scenario{
		Name:        "ids",
		Description: "Seeded identifiers",
		Query:       `{fun: {params: ["a", "b"], body: {var: "b"}}}`,
		IDStart:     41,
		Expect:      &ExpectClause{Wire: `[69,[[2,[42,43]],[10,[43]]]]`},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot(t *testing.T) {
	data, err := Snapshot("s", &Result{Wire: `[24,[1,2]]`, Hash: "abc", RootKind: "ADD"})
	require.NoError(t, err)
	assert.Equal(t, `{"hash":"abc","root_kind":"ADD","scenario_name":"s","wire":[24,[1,2]]}`, string(data))

	data, err = Snapshot("e", &Result{ErrorCode: "C001"})
	require.NoError(t, err)
	assert.Equal(t, `{"error_code":"C001","scenario_name":"e"}`, string(data))
}
