package database

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/staalberg/facetnav/app/facet"
)

var _ RowRepository = (*RowRepo)(nil)

// RowRepo handles database operations for document attribute rows.
type RowRepo struct {
	db *DB
}

func NewRowRepository(db *DB) *RowRepo {
	return &RowRepo{db: db}
}

// FacetedRows returns the repository's row snapshot in insertion order.
// Exact duplicates (same uri and same data) are dropped with a warning;
// they indicate a defect in whatever produced the rows, not something
// the classifiers should see twice.
func (r *RowRepo) FacetedRows(repo string) ([]facet.Row, error) {
	rows, err := r.db.Query(`
		SELECT uri, data
		FROM document_rows
		WHERE repo = ?
		ORDER BY id
	`, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	var res []facet.Row
	for rows.Next() {
		var uri, data string
		if err := rows.Scan(&uri, &data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		key := uri + "\x00" + data
		if seen[key] {
			slog.Warn("Duplicate row dropped", "repo", repo, "uri", uri)
			continue
		}
		seen[key] = true

		var row facet.Row
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			slog.Warn("Undecodable row dropped", "repo", repo, "uri", uri, "error", err)
			continue
		}
		if row == nil {
			row = facet.Row{}
		}
		row["uri"] = uri
		res = append(res, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return res, nil
}

// ReplaceRows swaps the repository's row snapshot in one transaction.
func (r *RowRepo) ReplaceRows(repo string, rows []facet.Row) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM document_rows WHERE repo = ?`, repo); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO document_rows (repo, uri, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row %s: %w", row.URI(), err)
		}
		if _, err := stmt.Exec(repo, row.URI(), string(data)); err != nil {
			return fmt.Errorf("failed to insert row %s: %w", row.URI(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rows: %w", err)
	}
	return nil
}

// GetRowCount returns the number of stored rows for a repository.
func (r *RowRepo) GetRowCount(repo string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM document_rows WHERE repo = ?`, repo).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get row count: %w", err)
	}
	return count, nil
}
