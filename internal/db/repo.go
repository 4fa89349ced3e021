package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"symptom-checker/internal/reference"
)

// Repository stores the reference datasets in Postgres, one header row per
// dataset plus its data rows in load order.  It implements reference.Source.
type Repository struct {
	DB *sql.DB
}

var _ reference.Source = (*Repository)(nil)

// NewRepository constructs a new Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// Location implements reference.Locator.
func (r *Repository) Location(d reference.Dataset) string {
	return "postgres reference_rows[" + string(d) + "]"
}

// ReadTable loads dataset d.  Rows come back ordered by their original position.
func (r *Repository) ReadTable(ctx context.Context, d reference.Dataset) (*reference.Table, error) {
	var header []string
	err := r.DB.QueryRowContext(ctx,
		`SELECT header FROM reference_tables WHERE dataset = $1`, string(d),
	).Scan(pq.Array(&header))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", reference.ErrDatasetMissing, d)
		}
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT fields FROM reference_rows
         WHERE dataset = $1
         ORDER BY position ASC`, string(d))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records [][]string
	for rows.Next() {
		var fields []string
		if err := rows.Scan(pq.Array(&fields)); err != nil {
			return nil, err
		}
		records = append(records, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reference.NewTable(header, records), nil
}

// ReplaceTable swaps the stored copy of dataset d for t in one transaction.
func (r *Repository) ReplaceTable(ctx context.Context, d reference.Dataset, t *reference.Table) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reference_tables (dataset, header, updated_at)
         VALUES ($1, $2, NOW())
         ON CONFLICT (dataset) DO UPDATE
         SET header = EXCLUDED.header, updated_at = NOW()`,
		string(d), pq.Array(t.Header),
	); err != nil {
		return fmt.Errorf("cannot upsert %s header: %w", d, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_rows WHERE dataset = $1`, string(d)); err != nil {
		return fmt.Errorf("cannot clear %s rows: %w", d, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reference_rows (dataset, position, fields) VALUES ($1, $2, $3)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, string(d), i, pq.Array(row)); err != nil {
			return fmt.Errorf("cannot insert %s row %d: %w", d, i, err)
		}
	}
	return tx.Commit()
}
