package analysis

import (
	"context"
	"time"

	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/domain/vision"
)

// Repository port (interface untuk persistence)
//
// CreatePending must serialize the check-then-create: it inserts the record
// only if no non-terminal record for the same asset exists inside the
// cooldown window, and returns ErrDuplicateInFlight otherwise. Complete and
// Fail are guarded by the current status so terminal records stay immutable.
type Repository interface {
	CreatePending(ctx context.Context, a *Analysis, cooldown time.Duration) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	ListByAsset(ctx context.Context, tenant string, assetID assets.AssetID) ([]*Analysis, error)
	MarkProcessing(ctx context.Context, tenant string, id AnalysisID) error
	Complete(ctx context.Context, tenant string, id AnalysisID, res *Analysis) error
	Fail(ctx context.Context, tenant string, id AnalysisID, errMsg string, completedAt time.Time) error
}

// ImageResolver port. Turns a stored photo reference into a time-limited URI
// the vision vendor can fetch. A resolution error means that reference is not
// analyzable for this run.
type ImageResolver interface {
	Resolve(ctx context.Context, objectKey string) (string, error)
}

// HistorySink port. Append-only; exactly one event per completed analysis.
type HistorySink interface {
	Append(ctx context.Context, e *HistoryEvent) error
}

// HistoryEvent is the audit record emitted on completion.
type HistoryEvent struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenant_id"`
	AssetID     assets.AssetID `json:"asset_id"`
	AnalysisID  AnalysisID     `json:"analysis_id"`
	Provider    ProviderName   `json:"provider"`
	Score       int            `json:"score"`
	Risk        FraudRisk      `json:"risk"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// ProviderInput is everything a scoring provider may consult.
type ProviderInput struct {
	Category   assets.Category
	Brand      string
	Model      string
	ImageURIs  []string
	ImageCount int
}

// ProviderResult is a scored assessment before persistence. Observation is
// non-nil only for vision-backed results and feeds the category model.
type ProviderResult struct {
	Provider    ProviderName
	Confidence  int
	Risk        FraudRisk
	Findings    Findings
	Indicators  []CounterfeitIndicator
	Markers     []AuthenticityMarker
	Observation *vision.Observation
}

// Provider port (interface untuk scoring engines)
type Provider interface {
	Name() ProviderName
	Analyze(ctx context.Context, in ProviderInput) (*ProviderResult, error)
}

// Dispatcher schedules background work after admission. The default spawns a
// goroutine; tests substitute an inline runner.
type Dispatcher interface {
	Dispatch(fn func())
}

// GoDispatcher runs work on a new goroutine.
type GoDispatcher struct{}

func (GoDispatcher) Dispatch(fn func()) { go fn() }
