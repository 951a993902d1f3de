package analysis

import (
	"time"

	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// AnalysisID tipe untuk Analysis
type AnalysisID string

// Status enum. pending and processing are the only non-terminal states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status can never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProviderName identifies which strategy produced the persisted result.
type ProviderName string

const (
	ProviderHeuristic ProviderName = "heuristic"
	ProviderVision    ProviderName = "vision"
	// ProviderDual is recorded when dual mode ran both paths and the vision
	// result won.
	ProviderDual ProviderName = "vision+heuristic"
)

// FraudRisk enum
type FraudRisk string

const (
	RiskLow      FraudRisk = "low"
	RiskMedium   FraudRisk = "medium"
	RiskHigh     FraudRisk = "high"
	RiskCritical FraudRisk = "critical"
)

// Level grades indicator severity and marker confidence.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Findings is the structured summary attached to a completed analysis.
type Findings struct {
	Headline          string   `json:"headline"`
	OverallAssessment string   `json:"overall_assessment"`
	KeyObservations   []string `json:"key_observations,omitempty"`
}

// CounterfeitIndicator is one negative signal.
type CounterfeitIndicator struct {
	Label       string `json:"label"`
	Severity    Level  `json:"severity"`
	Description string `json:"description,omitempty"`
}

// AuthenticityMarker is one positive signal.
type AuthenticityMarker struct {
	Label       string `json:"label"`
	Confidence  Level  `json:"confidence"`
	Description string `json:"description,omitempty"`
}

// Aggregate Root: Analysis
//
// Created once on admission, mutated twice at most (pending→processing, then
// →completed|failed) and immutable afterwards. A re-run is a new record.
type Analysis struct {
	ID                    AnalysisID             `json:"id"`
	TenantID              string                 `json:"tenant_id"`
	AssetID               assets.AssetID         `json:"asset_id"`
	RequestedByUserID     string                 `json:"requested_by_user_id"`
	Status                Status                 `json:"status"`
	Provider              ProviderName           `json:"provider,omitempty"`
	ConfidenceScore       int                    `json:"confidence_score"`
	FraudRisk             FraudRisk              `json:"fraud_risk,omitempty"`
	Findings              Findings               `json:"findings"`
	CounterfeitIndicators []CounterfeitIndicator `json:"counterfeit_indicators,omitempty"`
	AuthenticityMarkers   []AuthenticityMarker   `json:"authenticity_markers,omitempty"`
	AnalyzedImageRefs     []string               `json:"analyzed_image_refs"`
	ProcessingTimeMS      int64                  `json:"processing_time_ms"`
	RequestedAt           time.Time              `json:"requested_at"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	ErrorMessage          string                 `json:"error_message,omitempty"`
}
