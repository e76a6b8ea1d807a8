package store

import (
	"database/sql"
	"fmt"

	"github.com/abreit/rethinkdb/internal/term"
)

// Record is one stored query version.
type Record struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Hash           string `json:"hash"`
	Wire           string `json:"wire"`
	RootKind       string `json:"root_kind"`
	Seq            int64  `json:"seq"`
	BuilderVersion string `json:"builder_version"`
	WireVersion    string `json:"wire_version"`
}

// Term decodes the stored wire form back into a tree.
func (rec Record) Term() (*term.Term, error) {
	t, err := term.Decode([]byte(rec.Wire))
	if err != nil {
		return nil, fmt.Errorf("decode query %s: %w", rec.ID, err)
	}
	return t, nil
}

// encodeTerm returns the canonical wire TEXT and content hash for storage.
func encodeTerm(root *term.Term) (wire, hash string, err error) {
	data, err := term.EncodeCanonical(root)
	if err != nil {
		return "", "", fmt.Errorf("encode query: %w", err)
	}
	hash, err = term.Hash(root)
	if err != nil {
		return "", "", fmt.Errorf("hash query: %w", err)
	}
	return string(data), hash, nil
}

const recordColumns = `id, name, hash, wire, root_kind, seq, builder_version, wire_version`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Hash,
		&rec.Wire,
		&rec.RootKind,
		&rec.Seq,
		&rec.BuilderVersion,
		&rec.WireVersion,
	)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return records, nil
}
