package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/linkedin-sync/internal/models"
)

type SyncRunRepository interface {
	Create(ctx context.Context, run *models.SyncRun) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

type syncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Create(ctx context.Context, run *models.SyncRun) (int64, error) {
	query := `
		INSERT INTO sync_runs (run_id, organization_urn, trigger, fetched, skipped, upserted, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		run.RunID,
		run.OrganizationURN,
		run.Trigger,
		run.Fetched,
		run.Skipped,
		run.Upserted,
		run.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	query := `SELECT id, run_id, organization_urn, trigger, fetched, skipped, upserted, error_message, created_at
		FROM sync_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		err := rows.Scan(&run.ID, &run.RunID, &run.OrganizationURN, &run.Trigger, &run.Fetched,
			&run.Skipped, &run.Upserted, &run.ErrorMessage, &run.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return runs, nil
}
