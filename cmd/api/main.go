package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxeledger/authenticity/internal/application"
	appanalysis "github.com/luxeledger/authenticity/internal/application/analysis"
	"github.com/luxeledger/authenticity/internal/config"
	domain "github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/domain/vision"
	"github.com/luxeledger/authenticity/internal/infra/ai/gcpvision"
	openaivision "github.com/luxeledger/authenticity/internal/infra/ai/openai"
	mysqlp "github.com/luxeledger/authenticity/internal/infra/db/mysql"
	postgresp "github.com/luxeledger/authenticity/internal/infra/db/postgres"
	"github.com/luxeledger/authenticity/internal/infra/httpserver"
	"github.com/luxeledger/authenticity/internal/infra/providers/heuristic"
	"github.com/luxeledger/authenticity/internal/infra/providers/visionai"
	minioStore "github.com/luxeledger/authenticity/internal/infra/storage"
	"github.com/luxeledger/authenticity/internal/middleware"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	db, analysisRepo, assetRepo, historyRepo, err := connectDatabase(ctx, cfg)
	if err != nil {
		zlog.Fatal("database connect error", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close()

	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.MinioExpiry(),
	)
	if err != nil {
		zlog.Fatal("minio init error", "error", err)
	}

	visionClient, closeVision, err := buildVisionClient(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("vision client init error", "provider", cfg.Vision.Provider, "error", err)
	}
	if closeVision != nil {
		defer closeVision()
	}

	engine := heuristic.NewEngine(
		cfg.Analysis.HeuristicSeed,
		time.Duration(cfg.Analysis.MinLatencyMS)*time.Millisecond,
		time.Duration(cfg.Analysis.MaxLatencyMS)*time.Millisecond,
	)

	svc := &appanalysis.Service{
		Assets:    assetRepo,
		Repo:      analysisRepo,
		History:   historyRepo,
		Images:    store,
		Heuristic: engine,
		Vision:    visionai.New(visionClient, cfg.VisionTimeout(), zlog),
		Selector:  appanalysis.NewSelector(appanalysis.SelectorConfig{DualMode: cfg.Analysis.DualMode}),
		Clock:     application.SystemClock{},
		Dispatch:  domain.GoDispatcher{},
		Cooldown:  cfg.AnalysisCooldown(),
		Log:       zlog,
	}

	handler := httpserver.NewRouter(svc, zlog, httpserver.Options{
		APIKeys: cfg.Auth.APIKeys,
		HealthCheck: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
		RateCapacity:  cfg.RateLimit.Capacity,
		RateRefillPer: cfg.RateLimit.RefillPerSec,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zlog.Error("shutdown error", "error", err)
	}
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, assets.Repository, domain.HistorySink, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return db,
			postgresp.NewAnalysisRepository(db),
			postgresp.NewAssetRepository(db),
			postgresp.NewHistoryRepository(db),
			nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return db,
			mysqlp.NewAnalysisRepository(db),
			mysqlp.NewAssetRepository(db),
			mysqlp.NewHistoryRepository(db),
			nil
	}
}

func buildVisionClient(ctx context.Context, cfg *config.Config, zlog *logger.Logger) (vision.Client, func() error, error) {
	switch cfg.Vision.Provider {
	case "openai":
		return openaivision.NewClient(cfg.Vision.APIKey, cfg.Vision.Model), nil, nil
	default:
		cli, err := gcpvision.New(ctx, cfg.Vision.CredentialsFile, zlog)
		if err != nil {
			return nil, nil, err
		}
		return cli, cli.Close, nil
	}
}
