// Package store provides a SQLite-backed catalog of built queries.
//
// Each saved query is stored as its canonical wire encoding together with
// its content hash, root kind, and the builder and wire versions that
// produced it. Saving is idempotent per (name, hash): storing the same tree
// under the same name twice returns the existing record.
//
// # Ordering
//
//   - Every record gets a seq from a catalog-wide logical counter
//   - Queries MUST include: ORDER BY seq, id COLLATE BINARY
//   - Latest version of a name = highest seq
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
