package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxeledger/authenticity/internal/application"
	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/domain/authenticity"
	"github.com/luxeledger/authenticity/internal/middleware"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

// DefaultCooldown is the duplicate-in-flight admission window.
const DefaultCooldown = 5 * time.Minute

// Service owns the analysis request lifecycle: admission, state transitions,
// provider execution and persistence. It is the only writer of analysis
// records. Designed for concurrent use.
type Service struct {
	Assets    assets.Repository
	Repo      domain.Repository
	History   domain.HistorySink
	Images    domain.ImageResolver
	Heuristic domain.Provider
	Vision    domain.Provider
	Selector  *Selector
	Clock     application.Clock
	Dispatch  domain.Dispatcher
	Cooldown  time.Duration
	Log       *logger.Logger
}

// Request admits a new analysis for an asset and schedules the scoring work.
// It returns immediately with the pending record; callers poll for the
// terminal state.
func (s *Service) Request(ctx context.Context, tenant string, assetID assets.AssetID, userID string) (*domain.Analysis, error) {
	asset, err := s.Assets.Get(ctx, tenant, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading asset: %w", err)
	}

	photos, err := s.Assets.Photos(ctx, tenant, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading photos: %w", err)
	}
	if len(photos) == 0 {
		return nil, domain.ErrNoEligibleImages
	}

	refs := make([]string, 0, len(photos))
	for _, p := range photos {
		refs = append(refs, p.ID)
	}

	a := &domain.Analysis{
		ID:                domain.AnalysisID(uuid.New().String()),
		TenantID:          tenant,
		AssetID:           assetID,
		RequestedByUserID: userID,
		Status:            domain.StatusPending,
		AnalyzedImageRefs: refs,
		RequestedAt:       s.Clock.Now(),
	}

	if err := s.Repo.CreatePending(ctx, a, s.cooldown()); err != nil {
		return nil, err
	}
	middleware.IncrementAnalyses()

	// Admission is synchronous and fast; scoring is a separately scheduled
	// unit of work that must outlive the request context.
	s.Dispatch.Dispatch(func() {
		s.Process(context.Background(), tenant, a, asset, photos)
	})

	return a, nil
}

// Get returns one analysis record.
func (s *Service) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// List returns an asset's analyses, most recent first.
func (s *Service) List(ctx context.Context, tenant string, assetID assets.AssetID) ([]*domain.Analysis, error) {
	return s.Repo.ListByAsset(ctx, tenant, assetID)
}

// Process runs the scoring pipeline for an admitted record and writes the
// terminal state. Any unexpected failure after the record exists transitions
// it to failed; it is never retried implicitly.
func (s *Service) Process(ctx context.Context, tenant string, a *domain.Analysis, asset *assets.Asset, photos []assets.Photo) {
	log := s.Log.With("tenant", tenant, "analysis_id", string(a.ID), "asset_id", string(a.AssetID))
	start := s.Clock.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", "panic", r)
			_ = s.Repo.Fail(ctx, tenant, a.ID, fmt.Sprintf("internal error: %v", r), s.Clock.Now())
			middleware.IncrementAnalysesFailed()
		}
	}()

	if err := s.Repo.MarkProcessing(ctx, tenant, a.ID); err != nil {
		log.Error("mark processing failed", "error", err)
		return
	}
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	strategy := s.Selector.Select(tenant)
	in := domain.ProviderInput{
		Category:   asset.Category,
		Brand:      asset.Brand,
		Model:      asset.Model,
		ImageCount: len(photos),
	}

	if strategy != StrategyHeuristic {
		in.ImageURIs = s.resolveImages(ctx, photos, log)
		if len(in.ImageURIs) == 0 {
			// The persisted provider reflects actual execution, not the
			// requested strategy.
			log.Warn("no analyzable images resolved, falling back to heuristic", "strategy", strategy)
			strategy = StrategyHeuristic
		}
	}

	res, err := s.execute(ctx, strategy, in, asset, log)
	if err != nil {
		log.Error("analysis failed", "error", err)
		_ = s.Repo.Fail(ctx, tenant, a.ID, err.Error(), s.Clock.Now())
		middleware.IncrementAnalysesFailed()
		return
	}

	completedAt := s.Clock.Now()
	done := &domain.Analysis{
		ID:                    a.ID,
		TenantID:              tenant,
		AssetID:               a.AssetID,
		RequestedByUserID:     a.RequestedByUserID,
		Status:                domain.StatusCompleted,
		Provider:              res.Provider,
		ConfidenceScore:       res.Confidence,
		FraudRisk:             res.Risk,
		Findings:              res.Findings,
		CounterfeitIndicators: res.Indicators,
		AuthenticityMarkers:   res.Markers,
		AnalyzedImageRefs:     a.AnalyzedImageRefs,
		ProcessingTimeMS:      completedAt.Sub(start).Milliseconds(),
		RequestedAt:           a.RequestedAt,
		CompletedAt:           &completedAt,
	}

	if err := s.Repo.Complete(ctx, tenant, a.ID, done); err != nil {
		log.Error("persisting result failed", "error", err)
		_ = s.Repo.Fail(ctx, tenant, a.ID, "failed to persist analysis result", s.Clock.Now())
		middleware.IncrementAnalysesFailed()
		return
	}

	s.emitHistory(ctx, tenant, done, log)
	log.Info("analysis completed",
		"provider", string(done.Provider),
		"score", done.ConfidenceScore,
		"risk", string(done.FraudRisk),
		"duration_ms", done.ProcessingTimeMS,
	)
}

// execute runs the selected strategy and returns the result to persist.
func (s *Service) execute(ctx context.Context, strategy Strategy, in domain.ProviderInput, asset *assets.Asset, log *logger.Logger) (*domain.ProviderResult, error) {
	switch strategy {
	case StrategyVision:
		res, err := s.Vision.Analyze(ctx, in)
		if err != nil {
			// Provider-transient: recover locally, never fail the request.
			log.Warn("vision path unavailable, falling back to heuristic", "error", err)
			return s.Heuristic.Analyze(ctx, in)
		}
		return s.refine(in, asset, res), nil

	case StrategyDual:
		return s.executeDual(ctx, in, asset, log)

	default:
		return s.Heuristic.Analyze(ctx, in)
	}
}

// executeDual runs both paths concurrently. The vision result wins when it
// succeeds; the heuristic result is always computed and logged side by side
// for offline calibration.
func (s *Service) executeDual(ctx context.Context, in domain.ProviderInput, asset *assets.Asset, log *logger.Logger) (*domain.ProviderResult, error) {
	var (
		wg           sync.WaitGroup
		visionRes    *domain.ProviderResult
		visionErr    error
		heuristicRes *domain.ProviderResult
		heuristicErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		visionRes, visionErr = s.Vision.Analyze(ctx, in)
	}()
	go func() {
		defer wg.Done()
		heuristicRes, heuristicErr = s.Heuristic.Analyze(ctx, in)
	}()
	wg.Wait()

	if visionErr == nil && visionRes != nil {
		refined := s.refine(in, asset, visionRes)
		refined.Provider = domain.ProviderDual
		if heuristicErr == nil && heuristicRes != nil {
			log.Info("dual-mode comparison",
				"vision_score", refined.Confidence,
				"vision_risk", string(refined.Risk),
				"heuristic_score", heuristicRes.Confidence,
				"heuristic_risk", string(heuristicRes.Risk),
			)
		}
		return refined, nil
	}

	log.Warn("dual-mode vision path unavailable, persisting heuristic result", "error", visionErr)
	if heuristicErr != nil {
		return nil, heuristicErr
	}
	return heuristicRes, nil
}

// refine applies the category weighting model to observation-backed results.
// Heuristic results carry no observation and pass through unchanged.
func (s *Service) refine(in domain.ProviderInput, asset *assets.Asset, res *domain.ProviderResult) *domain.ProviderResult {
	if res.Observation == nil {
		return res
	}
	profile := authenticity.ProfileFor(asset.Category)
	pattern := authenticity.PatternFor(asset.Brand)
	refined := authenticity.Refine(in, *res, profile, pattern)
	return &refined
}

func (s *Service) resolveImages(ctx context.Context, photos []assets.Photo, log *logger.Logger) []string {
	uris := make([]string, 0, len(photos))
	for _, p := range photos {
		uri, err := s.Images.Resolve(ctx, p.ObjectKey)
		if err != nil {
			// A reference that cannot be resolved is simply not analyzable.
			log.Warn("image resolve failed", "photo_id", p.ID, "error", err)
			continue
		}
		uris = append(uris, uri)
	}
	return uris
}

func (s *Service) emitHistory(ctx context.Context, tenant string, a *domain.Analysis, log *logger.Logger) {
	e := &domain.HistoryEvent{
		ID:         uuid.New().String(),
		TenantID:   tenant,
		AssetID:    a.AssetID,
		AnalysisID: a.ID,
		Provider:   a.Provider,
		Score:      a.ConfidenceScore,
		Risk:       a.FraudRisk,
		Title:      "Authentication analysis completed",
		Description: fmt.Sprintf("%s analysis scored %d/100 with %s fraud risk",
			a.Provider, a.ConfidenceScore, a.FraudRisk),
		OccurredAt: s.Clock.Now(),
	}
	if err := s.History.Append(ctx, e); err != nil {
		log.Error("history append failed", "error", err)
	}
}

func (s *Service) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return DefaultCooldown
}
