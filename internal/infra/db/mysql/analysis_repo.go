package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `
id, tenant_id, asset_id, requested_by, status, provider,
confidence_score, fraud_risk,
findings_json, indicators_json, markers_json, image_refs_json,
processing_time_ms, requested_at, completed_at, error_message`

// CreatePending inserts the record only when no non-terminal record for the
// same asset exists inside the cooldown window. The guarded INSERT..SELECT
// serializes the check-then-create so two near-simultaneous requests cannot
// both be admitted.
func (r *AnalysisRepository) CreatePending(ctx context.Context, a *domain.Analysis, cooldown time.Duration) error {
	const q = `
INSERT INTO asset_analyses
 (id, tenant_id, asset_id, requested_by, status, provider,
  confidence_score, fraud_risk,
  findings_json, indicators_json, markers_json, image_refs_json,
  processing_time_ms, requested_at, completed_at, error_message)
SELECT ?,?,?,?,?,'',0,'','{}','[]','[]',?,0,?,NULL,''
FROM DUAL
WHERE NOT EXISTS (
  SELECT 1 FROM asset_analyses
  WHERE tenant_id=? AND asset_id=?
    AND status IN ('pending','processing')
    AND requested_at > ?
);`
	refs, err := marshalJSON(a.AnalyzedImageRefs)
	if err != nil {
		return fmt.Errorf("encoding image refs: %w", err)
	}
	cutoff := a.RequestedAt.Add(-cooldown)

	res, err := r.db.ExecContext(ctx, q,
		a.ID, a.TenantID, a.AssetID, a.RequestedByUserID, domain.StatusPending,
		refs, a.RequestedAt,
		a.TenantID, a.AssetID, cutoff,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDuplicateInFlight
	}
	return nil
}

// Get by ID + Tenant
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + `
FROM asset_analyses
WHERE tenant_id=? AND id=? LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, tenant, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

// ListByAsset returns all analyses for an asset, most recent first.
func (r *AnalysisRepository) ListByAsset(ctx context.Context, tenant string, assetID assets.AssetID) ([]*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + `
FROM asset_analyses
WHERE tenant_id=? AND asset_id=?
ORDER BY requested_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, tenant, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkProcessing flips pending to processing; no other transition is allowed.
func (r *AnalysisRepository) MarkProcessing(ctx context.Context, tenant string, id domain.AnalysisID) error {
	const q = `
UPDATE asset_analyses
SET status=?
WHERE tenant_id=? AND id=? AND status=?;`
	res, err := r.db.ExecContext(ctx, q, domain.StatusProcessing, tenant, id, domain.StatusPending)
	if err != nil {
		return err
	}
	return requireRow(res, "analysis not in pending state")
}

// Complete writes the terminal success state atomically with the scored
// result. The status predicate keeps terminal records immutable.
func (r *AnalysisRepository) Complete(ctx context.Context, tenant string, id domain.AnalysisID, a *domain.Analysis) error {
	const q = `
UPDATE asset_analyses
SET status=?, provider=?, confidence_score=?, fraud_risk=?,
    findings_json=?, indicators_json=?, markers_json=?,
    processing_time_ms=?, completed_at=?
WHERE tenant_id=? AND id=? AND status=?;`

	findings, err := marshalJSON(a.Findings)
	if err != nil {
		return fmt.Errorf("encoding findings: %w", err)
	}
	indicators, err := marshalJSON(a.CounterfeitIndicators)
	if err != nil {
		return fmt.Errorf("encoding indicators: %w", err)
	}
	markers, err := marshalJSON(a.AuthenticityMarkers)
	if err != nil {
		return fmt.Errorf("encoding markers: %w", err)
	}

	res, err := r.db.ExecContext(ctx, q,
		domain.StatusCompleted, a.Provider, a.ConfidenceScore, a.FraudRisk,
		findings, indicators, markers,
		a.ProcessingTimeMS, a.CompletedAt,
		tenant, id, domain.StatusProcessing,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "analysis not in processing state")
}

// Fail writes the terminal failure state.
func (r *AnalysisRepository) Fail(ctx context.Context, tenant string, id domain.AnalysisID, errMsg string, completedAt time.Time) error {
	const q = `
UPDATE asset_analyses
SET status=?, error_message=?, completed_at=?
WHERE tenant_id=? AND id=? AND status IN (?,?);`
	res, err := r.db.ExecContext(ctx, q,
		domain.StatusFailed, errMsg, completedAt,
		tenant, id, domain.StatusPending, domain.StatusProcessing,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "analysis already terminal")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a           domain.Analysis
		findings    []byte
		indicators  []byte
		markers     []byte
		refs        []byte
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&a.ID, &a.TenantID, &a.AssetID, &a.RequestedByUserID, &a.Status, &a.Provider,
		&a.ConfidenceScore, &a.FraudRisk,
		&findings, &indicators, &markers, &refs,
		&a.ProcessingTimeMS, &a.RequestedAt, &completedAt, &a.ErrorMessage,
	); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if err := unmarshalJSON(findings, &a.Findings); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(indicators, &a.CounterfeitIndicators); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(markers, &a.AuthenticityMarkers); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(refs, &a.AnalyzedImageRefs); err != nil {
		return nil, err
	}
	return &a, nil
}

func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(msg)
	}
	return nil
}
