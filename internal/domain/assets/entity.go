package assets

import "time"

// AssetID tipe untuk Asset
type AssetID string

// Category enum
type Category string

const (
	CategoryWatches      Category = "watches"
	CategoryCars         Category = "cars"
	CategoryHandbags     Category = "handbags"
	CategoryJewelry      Category = "jewelry"
	CategoryArt          Category = "art"
	CategoryCollectibles Category = "collectibles"
)

// Asset is the read model this engine consumes; the registry service owns
// the full record.
type Asset struct {
	ID           AssetID   `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Category     Category  `json:"category"`
	Brand        string    `json:"brand,omitempty"`
	Model        string    `json:"model,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Photo is one stored image reference for an asset. ObjectKey points into the
// object store; eligibility is decided by the registry before rows land here.
type Photo struct {
	ID        string  `json:"id"`
	AssetID   AssetID `json:"asset_id"`
	ObjectKey string  `json:"object_key"`
	Position  int     `json:"position"`
}
