package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/luxeledger/authenticity/internal/application/analysis"
	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/middleware"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

type Router struct {
	svc *appanalysis.Service
	log *logger.Logger
}

// Options configures the outer HTTP surface.
type Options struct {
	APIKeys       map[string]string
	HealthCheck   map[string]middleware.HealthChecker
	RateCapacity  int
	RateRefillPer int
}

func NewRouter(svc *appanalysis.Service, log *logger.Logger, opts Options) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	authEnabled := len(opts.APIKeys) > 0
	if authEnabled {
		mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	}
	if opts.RateCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefillPer))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheck))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		// URL params exist only after routing, so the tenant check must sit
		// inside the route group, not on the root mux.
		if authEnabled {
			rt.Use(middleware.RequireTenantMatch(func(req *http.Request) string {
				return chi.URLParam(req, "tenant")
			}))
		}
		rt.Post("/assets/{assetID}/analyses", r.wrap(r.handleRequestAnalysis))
		rt.Get("/assets/{assetID}/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows), errors.Is(err, domain.ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrDuplicateInFlight):
				http.Error(w, "an analysis for this asset is already in progress", http.StatusConflict)
			case errors.Is(err, domain.ErrNoEligibleImages):
				http.Error(w, "asset has no analyzable images", http.StatusUnprocessableEntity)
			default:
				r.log.Error("request failed", "path", req.URL.Path, "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/{tenant}/assets/{assetID}/analyses
// Body: {"requested_by": "<user>"}
// Admission is synchronous; scoring runs in the background. Responds 202 with
// the pending record.
func (r *Router) handleRequestAnalysis(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	assetID := chi.URLParam(req, "assetID")
	if err := middleware.ValidateAssetID(assetID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var body struct {
		RequestedBy string `json:"requested_by"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidateUserID(body.RequestedBy); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	a, err := r.svc.Request(req.Context(), tenant, assets.AssetID(assetID), body.RequestedBy)
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{tenant}/assets/{assetID}/analyses
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	assetID := chi.URLParam(req, "assetID")
	if err := middleware.ValidateAssetID(assetID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	list, err := r.svc.List(req.Context(), tenant, assets.AssetID(assetID))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	a, err := r.svc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}
