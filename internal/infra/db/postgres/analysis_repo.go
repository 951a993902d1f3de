package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// AnalysisRepository is the Postgres variant of the analysis store, for
// deployments that run the registry on Postgres instead of MySQL.
type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

// Connect opens a pooled Postgres connection and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

const analysisColumns = `
id, tenant_id, asset_id, requested_by, status, provider,
confidence_score, fraud_risk,
findings_json, indicators_json, markers_json, image_refs_json,
processing_time_ms, requested_at, completed_at, error_message`

// CreatePending mirrors the MySQL guarded insert; INSERT..SELECT with a NOT
// EXISTS predicate serializes admission against concurrent duplicates.
func (r *AnalysisRepository) CreatePending(ctx context.Context, a *domain.Analysis, cooldown time.Duration) error {
	const q = `
INSERT INTO asset_analyses
 (id, tenant_id, asset_id, requested_by, status, provider,
  confidence_score, fraud_risk,
  findings_json, indicators_json, markers_json, image_refs_json,
  processing_time_ms, requested_at, completed_at, error_message)
SELECT $1,$2,$3,$4,$5,'',0,'','{}','[]','[]',$6,0,$7,NULL,''
WHERE NOT EXISTS (
  SELECT 1 FROM asset_analyses
  WHERE tenant_id=$8 AND asset_id=$9
    AND status IN ('pending','processing')
    AND requested_at > $10
);`
	refs, err := json.Marshal(a.AnalyzedImageRefs)
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

func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + `
FROM asset_analyses
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, tenant, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *AnalysisRepository) ListByAsset(ctx context.Context, tenant string, assetID assets.AssetID) ([]*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + `
FROM asset_analyses
WHERE tenant_id=$1 AND asset_id=$2
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

func (r *AnalysisRepository) MarkProcessing(ctx context.Context, tenant string, id domain.AnalysisID) error {
	const q = `
UPDATE asset_analyses
SET status=$1
WHERE tenant_id=$2 AND id=$3 AND status=$4;`
	res, err := r.db.ExecContext(ctx, q, domain.StatusProcessing, tenant, id, domain.StatusPending)
	if err != nil {
		return err
	}
	return requireRow(res, "analysis not in pending state")
}

func (r *AnalysisRepository) Complete(ctx context.Context, tenant string, id domain.AnalysisID, a *domain.Analysis) error {
	const q = `
UPDATE asset_analyses
SET status=$1, provider=$2, confidence_score=$3, fraud_risk=$4,
    findings_json=$5, indicators_json=$6, markers_json=$7,
    processing_time_ms=$8, completed_at=$9
WHERE tenant_id=$10 AND id=$11 AND status=$12;`

	findings, err := json.Marshal(a.Findings)
	if err != nil {
		return fmt.Errorf("encoding findings: %w", err)
	}
	indicators, err := json.Marshal(a.CounterfeitIndicators)
	if err != nil {
		return fmt.Errorf("encoding indicators: %w", err)
	}
	markers, err := json.Marshal(a.AuthenticityMarkers)
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

func (r *AnalysisRepository) Fail(ctx context.Context, tenant string, id domain.AnalysisID, errMsg string, completedAt time.Time) error {
	const q = `
UPDATE asset_analyses
SET status=$1, error_message=$2, completed_at=$3
WHERE tenant_id=$4 AND id=$5 AND status IN ($6,$7);`
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
	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{findings, &a.Findings},
		{indicators, &a.CounterfeitIndicators},
		{markers, &a.AuthenticityMarkers},
		{refs, &a.AnalyzedImageRefs},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, err
		}
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
