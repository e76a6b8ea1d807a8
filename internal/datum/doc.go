// Package datum provides the runtime value model embedded in DATUM terms.
//
// This package contains value definitions only. The term and builder packages
// import datum; datum imports nothing internal.
//
// Key design constraints:
//   - Closed set of value kinds: Null, Num, Str, Bool, Array, Object
//   - Numbers are float64, non-finite numbers are rejected at every boundary
//   - Object keys have no order; use SortedKeys() for deterministic iteration
//   - Canonical JSON (RFC 8785) is the only encoding used for hashing
package datum
