package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// AssetRepository is the read-only view over the registry's asset tables.
type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Get(ctx context.Context, tenant string, id assets.AssetID) (*assets.Asset, error) {
	const q = `
SELECT id, tenant_id, category, brand, model, serial_number, registered_at
FROM assets
WHERE tenant_id=? AND id=? LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)

	var a assets.Asset
	if err := row.Scan(&a.ID, &a.TenantID, &a.Category, &a.Brand, &a.Model, &a.SerialNumber, &a.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("asset not found")
		}
		return nil, err
	}
	return &a, nil
}

// Photos returns the ordered list of eligible photo references for an asset.
func (r *AssetRepository) Photos(ctx context.Context, tenant string, id assets.AssetID) ([]assets.Photo, error) {
	const q = `
SELECT p.id, p.asset_id, p.object_key, p.position
FROM asset_photos p
JOIN assets a ON a.id = p.asset_id
WHERE a.tenant_id=? AND p.asset_id=?
ORDER BY p.position ASC, p.id ASC;`
	rows, err := r.db.QueryContext(ctx, q, tenant, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assets.Photo
	for rows.Next() {
		var p assets.Photo
		if err := rows.Scan(&p.ID, &p.AssetID, &p.ObjectKey, &p.Position); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
