package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
)

// ImportRunRepository implements [models.ImportRunRepository].
type ImportRunRepository struct {
	db DBTX
}

// NewImportRunRepository creates a new ImportRunRepository with the given database handle
func NewImportRunRepository(db DBTX) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

// Create inserts run, generating its ID when empty.
func (r *ImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	query := `
		INSERT INTO import_runs (id, path, policy, created, updated, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Path,
		run.Policy,
		run.Created,
		run.Updated,
		run.Skipped,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A non-positive limit returns all runs.
func (r *ImportRunRepository) Recent(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	query := `
		SELECT id, path, policy, created, updated, skipped, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.ImportRun{}
	for rows.Next() {
		var run models.ImportRun
		if err := rows.Scan(
			&run.ID,
			&run.Path,
			&run.Policy,
			&run.Created,
			&run.Updated,
			&run.Skipped,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}
