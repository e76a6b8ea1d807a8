package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abreit/rethinkdb/internal/term"
)

// ErrEmptyName is returned when a query is saved without a name.
var ErrEmptyName = errors.New("query name is required")

// InvalidTermError is returned when a tree fails structural verification.
type InvalidTermError struct {
	Problems []string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("invalid term: %s", strings.Join(e.Problems, "; "))
}

// SaveQuery stores root under name and returns the stored record.
// The tree is verified first. Saving a tree whose hash is already stored
// under the same name is a no-op that returns the existing record.
func (s *Store) SaveQuery(ctx context.Context, name string, root *term.Term) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return Record{}, ErrEmptyName
	}
	if res := term.Verify(root); !res.Valid {
		return Record{}, &InvalidTermError{Problems: res.Problems}
	}

	wire, hash, err := encodeTerm(root)
	if err != nil {
		return Record{}, fmt.Errorf("save query %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("save query %q: begin: %w", name, err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM queries`).Scan(&seq); err != nil {
		return Record{}, fmt.Errorf("save query %q: next seq: %w", name, err)
	}

	// ON CONFLICT DO NOTHING keeps the first (name, hash) row.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO queries
		(`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, hash) DO NOTHING
	`,
		uuid.Must(uuid.NewV7()).String(),
		name,
		hash,
		wire,
		root.Kind().String(),
		seq,
		term.BuilderVersion,
		term.WireVersion,
	)
	if err != nil {
		return Record{}, fmt.Errorf("save query %q: %w", name, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return Record{}, fmt.Errorf("save query %q: %w", name, err)
	}

	rec, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM queries
		WHERE name = ? AND hash = ?
	`, name, hash))
	if err != nil {
		return Record{}, fmt.Errorf("save query %q: reload: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("save query %q: commit: %w", name, err)
	}

	s.logger.Debug("saved query",
		"name", rec.Name,
		"hash", rec.Hash,
		"seq", rec.Seq,
		"created", inserted > 0,
	)
	return rec, nil
}
