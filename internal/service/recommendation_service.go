package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/llm"
	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/metrics"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/TripWise_APP_BackEnd/internal/validation"
)

const (
	defaultRecommendationTTL = 24 * time.Hour
	defaultRecommendTokens   = 2000
	defaultRecommendTemp     = 0.7
	defaultPOIPlaces         = 5
	maxCandidates            = 5
)

// Fallback reasons, used as log fields and metric labels.
const (
	fallbackForced       = "forced"
	fallbackUnconfigured = "unconfigured"
	fallbackProvider     = "provider_error"
	fallbackParse        = "parse_error"
	fallbackStructure    = "invalid_structure"
)

// POIEnricher supplies grounding context for recommendation prompts.
type POIEnricher interface {
	GetPOIData(ctx context.Context, location string, limit int) (*domain.POIData, error)
}

type RecommendationServiceConfig struct {
	CacheTTL      time.Duration
	MaxTokens     int
	Temperature   *float64
	Retries       int
	POIPlaces     int
	ForceFallback bool
	// ProviderName is reported by ProviderStatus when no provider is wired.
	ProviderName string
}

// ProviderStatus describes the text generation backend for health checks.
type ProviderStatus struct {
	Provider          string `json:"provider"`
	APIKeyConfigured  bool   `json:"apiKeyConfigured"`
	ProviderAvailable bool   `json:"providerAvailable"`
	ForceFallback     bool   `json:"forceFallback"`
}

type RecommendationService struct {
	provider        llm.Provider
	recommendations ports.RecommendationRepository
	poi             POIEnricher
	fallback        *FallbackRecommender
	archiver        *Archiver

	ttl           time.Duration
	maxTokens     int
	temperature   float64
	retries       int
	poiPlaces     int
	forceFallback bool
	providerName  string

	group singleflight.Group
	now   func() time.Time
	newID func() uuid.UUID
	log   zerolog.Logger
}

// NewRecommendationService wires the orchestrator. provider and poi may be
// nil; recommendations then come from the fallback tables without grounding.
func NewRecommendationService(
	provider llm.Provider,
	recommendations ports.RecommendationRepository,
	poi POIEnricher,
	archiver *Archiver,
	cfg RecommendationServiceConfig,
) *RecommendationService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultRecommendationTTL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultRecommendTokens
	}
	temperature := temperatureOr(cfg.Temperature, defaultRecommendTemp)
	retries := cfg.Retries
	if retries < 0 {
		retries = llm.DefaultRetries
	}
	poiPlaces := cfg.POIPlaces
	if poiPlaces <= 0 {
		poiPlaces = defaultPOIPlaces
	}
	name := strings.TrimSpace(cfg.ProviderName)
	if provider != nil {
		name = provider.Name()
	}

	return &RecommendationService{
		provider:        provider,
		recommendations: recommendations,
		poi:             poi,
		fallback:        NewFallbackRecommender(),
		archiver:        archiver,
		ttl:             ttl,
		maxTokens:       maxTokens,
		temperature:     temperature,
		retries:         retries,
		poiPlaces:       poiPlaces,
		forceFallback:   cfg.ForceFallback,
		providerName:    name,
		now:             time.Now,
		newID:           uuid.New,
		log:             logging.With("recommendation"),
	}
}

// Recommend serves candidates for input. Only invalid input and storage
// failures are returned as errors; every generation failure degrades to the
// fallback tables.
func (s *RecommendationService) Recommend(ctx context.Context, input domain.UserInput, userID *uuid.UUID) (*domain.RecommendationResult, error) {
	input = NormalizeInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, newValidationError(err)
	}

	fingerprint := Fingerprint(input)
	since := s.now().UTC().Add(-s.ttl)
	cached, err := s.recommendations.FindLatestByFingerprint(ctx, fingerprint, since)
	switch {
	case err == nil:
		metrics.RecommendationsTotal.WithLabelValues("cached").Inc()
		return &domain.RecommendationResult{
			Candidates: cached.Candidates,
			Cached:     true,
			Source:     cached.Source,
			Timestamp:  cached.CreatedAt,
		}, nil
	case !isNotFound(err):
		return nil, fmt.Errorf("lookup recommendation cache: %w", err)
	}

	v, err, _ := s.group.Do(fingerprint, func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), input, fingerprint, userID)
	})
	if err != nil {
		return nil, err
	}
	set := v.(*domain.RecommendationSet)
	return &domain.RecommendationResult{
		Candidates: set.Candidates,
		Cached:     false,
		Source:     set.Source,
		Timestamp:  set.CreatedAt,
	}, nil
}

// ProviderStatus reports the configured backend. Availability is probed
// only when a provider with credentials is wired.
func (s *RecommendationService) ProviderStatus(ctx context.Context) ProviderStatus {
	status := ProviderStatus{
		Provider:         s.providerName,
		APIKeyConfigured: s.provider != nil,
		ForceFallback:    s.forceFallback,
	}
	if s.provider != nil {
		status.ProviderAvailable = s.provider.CheckAvailability(ctx)
	}
	return status
}

func (s *RecommendationService) generate(ctx context.Context, input domain.UserInput, fingerprint string, userID *uuid.UUID) (*domain.RecommendationSet, error) {
	poi := s.enrich(ctx, input)

	candidates, source := s.generateCandidates(ctx, input, poi)
	if poi != nil {
		overlayPOI(candidates, poi)
	}

	set := &domain.RecommendationSet{
		ID:          s.newID(),
		UserID:      userID,
		Fingerprint: fingerprint,
		Input:       input,
		Candidates:  candidates,
		Source:      source,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.recommendations.Insert(ctx, set); err != nil {
		return nil, fmt.Errorf("store recommendation set: %w", err)
	}
	metrics.RecommendationsTotal.WithLabelValues(string(source)).Inc()
	s.archiver.Archive(archiveObjectName("recommendations", set.ID.String(), set.CreatedAt), set)
	return set, nil
}

// enrich fetches grounding context. Failures are logged and ignored.
func (s *RecommendationService) enrich(ctx context.Context, input domain.UserInput) *domain.POIData {
	if s.poi == nil {
		return nil
	}
	poi, err := s.poi.GetPOIData(ctx, input.Location, s.poiPlaces)
	if err != nil {
		s.log.Warn().Err(err).Str("location", input.Location).Msg("poi enrichment failed, continuing without context")
		return nil
	}
	return poi
}

func (s *RecommendationService) generateCandidates(ctx context.Context, input domain.UserInput, poi *domain.POIData) ([]domain.Candidate, domain.RecommendationSource) {
	switch {
	case s.forceFallback:
		return s.useFallback(input, fallbackForced, nil), domain.SourceFallback
	case s.provider == nil:
		return s.useFallback(input, fallbackUnconfigured, nil), domain.SourceFallback
	}

	text, err := s.provider.Generate(ctx, llm.BuildRecommendationPrompt(input, poi),
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(s.temperature),
		llm.WithRetries(s.retries),
	)
	if err != nil {
		return s.useFallback(input, fallbackProvider, err), domain.SourceFallback
	}

	set, err := llm.ParseRecommendations(text)
	if err != nil {
		reason := fallbackParse
		if errors.Is(err, llm.ErrInvalidStructure) {
			reason = fallbackStructure
		}
		return s.useFallback(input, reason, err), domain.SourceFallback
	}

	candidates := set.Candidates
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, domain.SourceLLM
}

func (s *RecommendationService) useFallback(input domain.UserInput, reason string, cause error) []domain.Candidate {
	metrics.FallbackReasonsTotal.WithLabelValues(reason).Inc()
	event := s.log.Warn()
	if reason == fallbackForced || reason == fallbackUnconfigured {
		event = s.log.Info()
	}
	event.Err(cause).Str("reason", reason).Msg("using fallback recommendations")
	return s.fallback.Generate(input).Candidates
}

// overlayPOI replaces the places of candidates that name the grounding
// destination with the structured POI list.
func overlayPOI(candidates []domain.Candidate, poi *domain.POIData) {
	name := strings.ToLower(strings.TrimSpace(poi.Name))
	if name == "" || len(poi.TopPlaces) == 0 {
		return
	}
	for i := range candidates {
		if strings.Contains(strings.ToLower(candidates[i].Name), name) {
			candidates[i].TopPlaces = poi.Places()
		}
	}
}
