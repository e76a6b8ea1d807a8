package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/abreit/rethinkdb/internal/datum"
)

// Snapshot returns the canonical JSON recorded in golden files for a
// result: scenario name, root kind, hash and wire tree, or the compile
// error code for failing scenarios.
func Snapshot(name string, result *Result) ([]byte, error) {
	snap := datum.Object{"scenario_name": datum.Str(name)}
	if result.ErrorCode != "" {
		snap["error_code"] = datum.Str(result.ErrorCode)
	}
	if result.Wire != "" {
		wire, err := datum.UnmarshalDatum([]byte(result.Wire))
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", name, err)
		}
		snap["wire"] = wire
		snap["hash"] = datum.Str(result.Hash)
		snap["root_kind"] = datum.Str(result.RootKind)
	}
	return datum.MarshalCanonical(snap)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}
