package analysis

import "errors"

// ErrNoEligibleImages rejects admission when the asset has no analyzable photos.
var ErrNoEligibleImages = errors.New("asset has no eligible images")

// ErrDuplicateInFlight rejects admission while another request for the same
// asset is still pending/processing inside the cooldown window.
var ErrDuplicateInFlight = errors.New("analysis already in flight for asset")

// ErrNotFound indicates the requested analysis record does not exist.
var ErrNotFound = errors.New("analysis not found")

// ErrProviderUnavailable indicates the vision vendor failed (network, quota,
// timeout, malformed response). Recovered locally via heuristic fallback.
var ErrProviderUnavailable = errors.New("vision provider unavailable")
