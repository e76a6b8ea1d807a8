// Package harness runs query-building scenarios.
//
// A scenario is a YAML file holding one CUE query expression plus the
// outcome it must produce: exact wire encoding, content hash, typed
// assertions over the tree, or the compile error code it must fail with.
//
// Each run compiles the query with a deterministic identifier sequence
// starting at the scenario's id_start, verifies the tree, and round-trips
// it through a fresh in-memory catalog so stored and built trees are
// checked for equality. RunWithGolden additionally compares a canonical
// snapshot of the result against testdata/golden/<name>.golden.
package harness
