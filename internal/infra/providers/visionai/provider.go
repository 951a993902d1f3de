package visionai

import (
	"context"
	"fmt"
	"time"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/authenticity"
	"github.com/luxeledger/authenticity/internal/domain/vision"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

// Provider adapts a vision vendor client into the scoring Provider port.
// Only the primary image feeds the authenticity verdict; additional URIs are
// accepted but recorded only as considered refs by the orchestrator.
type Provider struct {
	client  vision.Client
	timeout time.Duration
	log     *logger.Logger
}

func New(client vision.Client, timeout time.Duration, log *logger.Logger) *Provider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{client: client, timeout: timeout, log: log.With("provider", "vision")}
}

func (p *Provider) Name() analysis.ProviderName { return analysis.ProviderVision }

// Analyze annotates the primary image and maps the observation into a scored
// result. Vendor failures of any kind surface as ErrProviderUnavailable so the
// orchestrator can fall back to the heuristic path for this run.
func (p *Provider) Analyze(ctx context.Context, in analysis.ProviderInput) (*analysis.ProviderResult, error) {
	if len(in.ImageURIs) == 0 {
		return nil, fmt.Errorf("%w: no analyzable images", analysis.ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	obs, err := p.client.Annotate(ctx, in.ImageURIs[0])
	if err != nil {
		p.log.Warn("vision annotate failed", "error", err)
		return nil, fmt.Errorf("%w: %v", analysis.ErrProviderUnavailable, err)
	}
	if obs == nil {
		return nil, fmt.Errorf("%w: empty response", analysis.ErrProviderUnavailable)
	}

	return authenticity.ScoreObservation(in, obs), nil
}
