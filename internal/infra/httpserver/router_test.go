package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/luxeledger/authenticity/internal/application/analysis"
	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/middleware"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

type stubAssets struct {
	photos []assets.Photo
}

func (s *stubAssets) Get(ctx context.Context, tenant string, id assets.AssetID) (*assets.Asset, error) {
	return &assets.Asset{ID: id, TenantID: tenant, Category: assets.CategoryWatches, Brand: "Omega"}, nil
}

func (s *stubAssets) Photos(ctx context.Context, tenant string, id assets.AssetID) ([]assets.Photo, error) {
	return s.photos, nil
}

type stubRepo struct {
	mu      sync.Mutex
	records map[domain.AnalysisID]*domain.Analysis
}

func (s *stubRepo) CreatePending(ctx context.Context, a *domain.Analysis, cooldown time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.AssetID == a.AssetID && !r.Status.Terminal() {
			return domain.ErrDuplicateInFlight
		}
	}
	cp := *a
	s.records[a.ID] = &cp
	return nil
}

func (s *stubRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stubRepo) ListByAsset(ctx context.Context, tenant string, assetID assets.AssetID) ([]*domain.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Analysis
	for _, r := range s.records {
		if r.AssetID == assetID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubRepo) MarkProcessing(ctx context.Context, tenant string, id domain.AnalysisID) error {
	return nil
}

func (s *stubRepo) Complete(ctx context.Context, tenant string, id domain.AnalysisID, res *domain.Analysis) error {
	return nil
}

func (s *stubRepo) Fail(ctx context.Context, tenant string, id domain.AnalysisID, errMsg string, completedAt time.Time) error {
	return nil
}

type stubHistory struct{}

func (stubHistory) Append(ctx context.Context, e *domain.HistoryEvent) error { return nil }

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, objectKey string) (string, error) {
	return "https://img.test/" + objectKey, nil
}

type stubProvider struct{ name domain.ProviderName }

func (p stubProvider) Name() domain.ProviderName { return p.name }

func (p stubProvider) Analyze(ctx context.Context, in domain.ProviderInput) (*domain.ProviderResult, error) {
	return &domain.ProviderResult{
		Provider:   p.name,
		Confidence: 91,
		Risk:       domain.RiskLow,
	}, nil
}

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

// dropDispatcher keeps records pending so handler responses stay deterministic.
type dropDispatcher struct{}

func (dropDispatcher) Dispatch(fn func()) {}

func newTestHandler(photos []assets.Photo) (http.Handler, *stubRepo) {
	repo := &stubRepo{records: make(map[domain.AnalysisID]*domain.Analysis)}
	svc := &appanalysis.Service{
		Assets:    &stubAssets{photos: photos},
		Repo:      repo,
		History:   stubHistory{},
		Images:    stubResolver{},
		Heuristic: stubProvider{name: domain.ProviderHeuristic},
		Vision:    stubProvider{name: domain.ProviderVision},
		Selector:  appanalysis.NewSelector(appanalysis.SelectorConfig{}),
		Clock:     stubClock{},
		Dispatch:  dropDispatcher{},
		Log:       logger.NewNop(),
	}
	handler := NewRouter(svc, logger.NewNop(), Options{
		HealthCheck: map[string]middleware.HealthChecker{},
	})
	return handler, repo
}

func postAnalysis(t *testing.T, handler http.Handler, assetID string) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"requested_by":"user-7"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/assets/"+assetID+"/analyses", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRequestAnalysisAccepted(t *testing.T) {
	handler, _ := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	rec := postAnalysis(t, handler, "asset-1")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var got domain.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, assets.AssetID("asset-1"), got.AssetID)
	assert.Equal(t, "user-7", got.RequestedByUserID)
	assert.NotEmpty(t, got.ID)
}

func TestHandleRequestAnalysisDuplicate(t *testing.T) {
	handler, _ := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	require.Equal(t, http.StatusAccepted, postAnalysis(t, handler, "asset-1").Code)
	assert.Equal(t, http.StatusConflict, postAnalysis(t, handler, "asset-1").Code)
}

func TestHandleRequestAnalysisNoImages(t *testing.T) {
	handler, _ := newTestHandler(nil)

	rec := postAnalysis(t, handler, "asset-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleRequestAnalysisBadBody(t *testing.T) {
	handler, _ := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/assets/asset-1/analyses", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/acme/assets/asset-1/analyses", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "requested_by is required")
}

func TestHandleGetAnalysis(t *testing.T) {
	handler, repo := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	rec := postAnalysis(t, handler, "asset-1")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created domain.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/"+string(created.ID), nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var got domain.Analysis
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)

	_, ok := repo.records[created.ID]
	assert.True(t, ok)
}

func TestHandleGetAnalysisNotFound(t *testing.T) {
	handler, _ := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/3f2f4c1e-8c44-4b63-9d5e-aa11bb22cc33", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetAnalysisInvalidID(t *testing.T) {
	handler, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListAnalyses(t *testing.T) {
	handler, _ := newTestHandler([]assets.Photo{{ID: "ph-1", ObjectKey: "k1"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/assets/asset-1/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "empty list encodes as an array")

	require.Equal(t, http.StatusAccepted, postAnalysis(t, handler, "asset-1").Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/assets/asset-1/analyses", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []domain.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestHandler(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequiredWhenKeysConfigured(t *testing.T) {
	svc := &appanalysis.Service{}
	handler := NewRouter(svc, logger.NewNop(), Options{
		APIKeys:     map[string]string{"acme": "sekrit"},
		HealthCheck: map[string]middleware.HealthChecker{},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/assets/asset-1/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// health stays open
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCrossTenantReadRejected(t *testing.T) {
	const recordID = "3f2f4c1e-8c44-4b63-9d5e-aa11bb22cc33"
	repo := &stubRepo{records: map[domain.AnalysisID]*domain.Analysis{
		recordID: {ID: recordID, TenantID: "rival", AssetID: "asset-1", Status: domain.StatusPending},
	}}
	svc := &appanalysis.Service{Repo: repo}
	handler := NewRouter(svc, logger.NewNop(), Options{
		APIKeys:     map[string]string{"acme": "sekrit", "rival": "rival-key"},
		HealthCheck: map[string]middleware.HealthChecker{},
	})

	// acme's valid key must not read rival's records
	req := httptest.NewRequest(http.MethodGet, "/v1/rival/analyses/"+recordID, nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), recordID)

	req = httptest.NewRequest(http.MethodGet, "/v1/rival/assets/asset-1/analyses", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the owning tenant still reads its own record
	req = httptest.NewRequest(http.MethodGet, "/v1/rival/analyses/"+recordID, nil)
	req.Header.Set("Authorization", "Bearer rival-key")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWrapMapsDomainErrors(t *testing.T) {
	r := &Router{log: logger.NewNop()}

	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrDuplicateInFlight, http.StatusConflict},
		{domain.ErrNoEligibleImages, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := r.wrap(func(w http.ResponseWriter, req *http.Request) error { return c.err })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, c.code, rec.Code, "error %v", c.err)
	}
}
