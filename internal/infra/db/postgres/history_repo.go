package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// HistoryRepository is the append-only sink for asset timeline events.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append stores one event; events are never updated or deleted here.
func (r *HistoryRepository) Append(ctx context.Context, e *domain.HistoryEvent) error {
	const q = `
INSERT INTO asset_history
 (id, tenant_id, asset_id, analysis_id, provider, score, risk, title, description, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	occurred := e.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.TenantID, e.AssetID, e.AnalysisID,
		e.Provider, e.Score, e.Risk, e.Title, e.Description, occurred,
	)
	return err
}

// ListByAsset returns the recorded events for an asset, newest first.
func (r *HistoryRepository) ListByAsset(ctx context.Context, tenant string, assetID assets.AssetID, limit int) ([]*domain.HistoryEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, tenant_id, asset_id, analysis_id, provider, score, risk, title, description, occurred_at
FROM asset_history
WHERE tenant_id=$1 AND asset_id=$2
ORDER BY occurred_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, assetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.HistoryEvent
	for rows.Next() {
		var e domain.HistoryEvent
		if err := rows.Scan(&e.ID, &e.TenantID, &e.AssetID, &e.AnalysisID,
			&e.Provider, &e.Score, &e.Risk, &e.Title, &e.Description, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
