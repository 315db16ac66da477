package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njprem/TripWise_APP_BackEnd/internal/config"
	"github.com/njprem/TripWise_APP_BackEnd/internal/llm"
	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/memory"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/TripWise_APP_BackEnd/internal/service"
	transport "github.com/njprem/TripWise_APP_BackEnd/internal/transport/http"
	"github.com/njprem/TripWise_APP_BackEnd/internal/util"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	closeLogs, err := logging.Init(logging.Config{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		LogstashAddr: cfg.LogstashTCPAddr,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("logstash sink unavailable, logging to stderr only")
	}
	defer func() { _ = closeLogs() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recommendations, destinations, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("open storage")
		os.Exit(1)
	}
	defer closeStore()

	provider := newProvider(cfg)
	archiver := newArchiver(ctx, cfg)

	poiService := service.NewPOIService(provider, destinations, archiver, service.POIServiceConfig{
		CacheTTL: cfg.DestinationCacheTTL,
		Retries:  cfg.LLMRetries,
	})
	recommendationService := service.NewRecommendationService(provider, recommendations, poiService, archiver, service.RecommendationServiceConfig{
		CacheTTL:      cfg.RecommendationCacheTTL,
		MaxTokens:     cfg.LLMMaxTokens,
		Temperature:   &cfg.LLMTemperature,
		Retries:       cfg.LLMRetries,
		ForceFallback: cfg.LLMForceFallback,
		ProviderName:  cfg.LLMProvider,
	})
	destinationService := service.NewDestinationService(destinations, poiService)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterSwagger(e, "docs")
	transport.RegisterRecommendations(e, recommendationService, util.NewJWTManager(cfg.JWTSecret, 0))
	transport.RegisterDestinations(e, destinationService)

	go func() {
		logging.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Str("llm_provider", cfg.LLMProvider).Msg("tripwise api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
	archiver.Wait()
}

func openStores(ctx context.Context, cfg config.Config) (ports.RecommendationRepository, ports.DestinationRepository, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logging.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.NewRecommendationRepo(cfg.RecommendationCacheTTL), memory.NewDestinationRepo(), func() {}, nil
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("close database")
		}
	}
	return postgres.NewRecommendationRepo(db), postgres.NewDestinationRepo(db), closeDB, nil
}

// newProvider returns nil when no credential is configured. Forced fallback
// is decided by the recommendation service alone; destination details still
// use the provider.
func newProvider(cfg config.Config) llm.Provider {
	if cfg.LLMForceFallback {
		logging.Info().Msg("llm force fallback enabled for recommendations")
	}
	provider, err := llm.New(llm.Config{
		Provider:            cfg.LLMProvider,
		APIKey:              cfg.LLMAPIKey,
		Model:               cfg.LLMModel,
		BaseURL:             cfg.LLMBaseURL,
		GenerateTimeout:     cfg.LLMGenerateTimeout,
		AvailabilityTimeout: cfg.LLMAvailabilityTimeout,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			logging.Warn().Str("provider", cfg.LLMProvider).Msg("LLM_API_KEY not set, serving fallback recommendations")
		} else {
			logging.Error().Err(err).Str("provider", cfg.LLMProvider).Msg("llm provider setup failed, serving fallback recommendations")
		}
		return nil
	}
	if cfg.LLMBreakerEnabled {
		return llm.NewBreakerProvider(provider, llm.BreakerSettings{})
	}
	return provider
}

// newArchiver returns nil when MinIO is not configured or unreachable.
func newArchiver(ctx context.Context, cfg config.Config) *service.Archiver {
	if !cfg.ArchiveEnabled() {
		return nil
	}
	client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		logging.Warn().Err(err).Msg("minio client setup failed, archive disabled")
		return nil
	}
	storage := minio.NewStorage(client)

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(bucketCtx, cfg.MinIOBucketArchive); err != nil {
		logging.Warn().Err(err).Str("bucket", cfg.MinIOBucketArchive).Msg("archive bucket unavailable, archive disabled")
		return nil
	}
	return service.NewArchiver(storage, cfg.MinIOBucketArchive)
}
