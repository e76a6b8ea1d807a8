package store

import (
	"context"
	"fmt"
)

// LatestQuery returns the most recently saved version of name.
// Returns sql.ErrNoRows if not found.
func (s *Store) LatestQuery(ctx context.Context, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM queries
		WHERE name = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, name)
	return scanRecord(row)
}

// QueryVersions returns every saved version of name, oldest first.
//
// Returns an empty slice (not nil) if the name is unknown.
func (s *Store) QueryVersions(ctx context.Context, name string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM queries
		WHERE name = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	return scanRecords(rows)
}

// QueryByHash returns every record whose tree hashes to hash. The same tree
// may be stored under several names.
//
// Returns an empty slice (not nil) if no record matches.
func (s *Store) QueryByHash(ctx context.Context, hash string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM queries
		WHERE hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query by hash: %w", err)
	}
	return scanRecords(rows)
}

// ListQueries returns the latest version of every stored name, ordered by
// the seq of that version.
//
// Returns an empty slice (not nil) if the catalog is empty.
func (s *Store) ListQueries(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM queries q
		WHERE seq = (SELECT MAX(seq) FROM queries WHERE name = q.name)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return scanRecords(rows)
}
