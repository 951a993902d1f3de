package assets

import "context"

// Repository port (read-only contract against the registry's store)
type Repository interface {
	Get(ctx context.Context, tenant string, id AssetID) (*Asset, error)
	Photos(ctx context.Context, tenant string, id AssetID) ([]Photo, error)
}
