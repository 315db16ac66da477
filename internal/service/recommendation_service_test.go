package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/llm"
	"github.com/njprem/TripWise_APP_BackEnd/internal/metrics"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/memory"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

const llmCandidatesJSON = `Sure! Here you go: {"candidates":[
  {"name":"Kyoto, Japan","score":9,"reason":"Temples and gardens","topPlaces":[{"name":"LLM Place","description":"generated"}],"sampleItineraryText":"Day 1: temples"},
  {"name":"Osaka","score":8,"reason":"Street food","topPlaces":[{"name":"Dotonbori","description":"neon"}],"sampleItineraryText":"Day 1: food"}
]} Hope that helps!`

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestRecommendationService(provider llm.Provider, repo ports.RecommendationRepository, poi POIEnricher, cfg RecommendationServiceConfig) *RecommendationService {
	svc := NewRecommendationService(provider, repo, poi, nil, cfg)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func cultureInput() domain.UserInput {
	return domain.UserInput{
		BudgetRange: domain.BudgetLow,
		LengthDays:  5,
		TravelStyle: domain.StyleCulture,
		Interests:   []string{"history", "food"},
	}
}

func TestRecommendationService_FallbackWithoutProvider(t *testing.T) {
	before := testutil.ToFloat64(metrics.FallbackReasonsTotal.WithLabelValues(fallbackUnconfigured))
	svc := newTestRecommendationService(nil, memory.NewRecommendationRepo(48*time.Hour), nil, RecommendationServiceConfig{})

	res, err := svc.Recommend(context.Background(), cultureInput(), nil)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Cached {
		t.Fatalf("expected fresh result")
	}
	if res.Source != domain.SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
	if len(res.Candidates) == 0 || len(res.Candidates) > 5 {
		t.Fatalf("expected 1-5 candidates, got %d", len(res.Candidates))
	}
	for i, c := range res.Candidates {
		if c.Score < 7 || c.Score > 9 {
			t.Fatalf("candidate %d: expected score in 7..9, got %v", i, c.Score)
		}
		if len(c.TopPlaces) != 5 || c.TopPlaces[1].Name != "Ancient Temple" {
			t.Fatalf("candidate %d: expected culture places, got %+v", i, c.TopPlaces)
		}
	}
	if !res.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected timestamp %v, got %v", fixedNow, res.Timestamp)
	}
	after := testutil.ToFloat64(metrics.FallbackReasonsTotal.WithLabelValues(fallbackUnconfigured))
	if after-before != 1 {
		t.Fatalf("expected one unconfigured fallback, got %v", after-before)
	}
}

func TestRecommendationService_CacheHitWithinWindow(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(48*time.Hour), nil, RecommendationServiceConfig{})
	ctx := context.Background()

	first, err := svc.Recommend(ctx, cultureInput(), nil)
	if err != nil {
		t.Fatalf("first Recommend returned error: %v", err)
	}
	svc.now = func() time.Time { return fixedNow.Add(23 * time.Hour) }

	reordered := cultureInput()
	reordered.Interests = []string{"Food", "history"}
	second, err := svc.Recommend(ctx, reordered, nil)
	if err != nil {
		t.Fatalf("second Recommend returned error: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Fatalf("expected cached=false then cached=true, got %v then %v", first.Cached, second.Cached)
	}
	if !second.Timestamp.Equal(first.Timestamp) {
		t.Fatalf("expected original timestamp %v, got %v", first.Timestamp, second.Timestamp)
	}
	if second.Source != domain.SourceLLM {
		t.Fatalf("expected stored source llm, got %s", second.Source)
	}
	if len(second.Candidates) != len(first.Candidates) || second.Candidates[0].Name != first.Candidates[0].Name {
		t.Fatalf("expected identical candidates, got %+v", second.Candidates)
	}
	if provider.calls() != 1 {
		t.Fatalf("expected a single generation, got %d", provider.calls())
	}
}

func TestRecommendationService_CacheExpires(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(72*time.Hour), nil, RecommendationServiceConfig{})
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, cultureInput(), nil); err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	svc.now = func() time.Time { return fixedNow.Add(25 * time.Hour) }
	res, err := svc.Recommend(ctx, cultureInput(), nil)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Cached {
		t.Fatalf("expected expired entry to regenerate")
	}
	if provider.calls() != 2 {
		t.Fatalf("expected two generations, got %d", provider.calls())
	}
}

func TestRecommendationService_ValidationReportsEveryViolation(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{})

	_, err := svc.Recommend(context.Background(), domain.UserInput{
		BudgetRange: "cheap",
		LengthDays:  45,
		TravelStyle: "",
	}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", verr.Violations)
	}
	if provider.calls() != 0 {
		t.Fatalf("expected no generation for invalid input")
	}
}

func TestRecommendationService_LLMWithPOIOverlay(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	poi := &fakePOI{data: &domain.POIData{
		Name:    "Kyoto",
		Country: "Japan",
		TopPlaces: []domain.TopPlace{
			{Name: "Fushimi Inari", Description: "Torii gates"},
			{Name: "Kinkaku-ji", Description: "Golden pavilion"},
		},
	}}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), poi, RecommendationServiceConfig{})
	userID := uuid.New()

	input := cultureInput()
	input.Location = "Kyoto"
	res, err := svc.Recommend(context.Background(), input, &userID)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Source != domain.SourceLLM {
		t.Fatalf("expected llm source, got %s", res.Source)
	}
	if len(poi.locations) != 1 || poi.locations[0] != "Kyoto" {
		t.Fatalf("expected enrichment for Kyoto, got %v", poi.locations)
	}
	if !strings.Contains(provider.prompts[0], "Available Places of Interest for Kyoto") {
		t.Fatalf("expected grounding in prompt")
	}
	opts := provider.options[0]
	if opts.MaxTokens != 2000 || opts.Temperature != 0.7 || opts.Retries != 0 {
		t.Fatalf("unexpected generation options %+v", opts)
	}
	if got := res.Candidates[0].TopPlaces; len(got) != 2 || got[0].Name != "Fushimi Inari" {
		t.Fatalf("expected POI places on matching candidate, got %+v", got)
	}
	if got := res.Candidates[1].TopPlaces; len(got) != 1 || got[0].Name != "Dotonbori" {
		t.Fatalf("expected generated places on other candidate, got %+v", got)
	}
}

func TestRecommendationService_FallbackOnGenerationFailures(t *testing.T) {
	cases := map[string]*fakeProvider{
		fallbackProvider:  {err: &llm.ProviderError{Provider: "fake", Kind: llm.KindAuth, StatusCode: 401, Err: errors.New("bad key")}},
		fallbackParse:     {responses: []string{"I cannot help with that."}},
		fallbackStructure: {responses: []string{`{"candidates":[{"name":"A","reason":"ok"},{"name":"B"}]}`}},
	}
	for reason, provider := range cases {
		t.Run(reason, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.FallbackReasonsTotal.WithLabelValues(reason))
			svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{})

			res, err := svc.Recommend(context.Background(), cultureInput(), nil)
			if err != nil {
				t.Fatalf("Recommend returned error: %v", err)
			}
			if res.Source != domain.SourceFallback || res.Candidates[0].Name != "Thailand" {
				t.Fatalf("expected fallback candidates, got %s %+v", res.Source, res.Candidates[0])
			}
			after := testutil.ToFloat64(metrics.FallbackReasonsTotal.WithLabelValues(reason))
			if after-before != 1 {
				t.Fatalf("expected fallback reason %s to be counted", reason)
			}
		})
	}
}

func TestRecommendationService_ZeroTemperatureIsKept(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	zero := 0.0
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{Temperature: &zero})

	if _, err := svc.Recommend(context.Background(), cultureInput(), nil); err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if got := provider.options[0].Temperature; got != 0 {
		t.Fatalf("expected temperature 0, got %v", got)
	}
}

func TestRecommendationService_ForceFallbackSkipsProvider(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{ForceFallback: true})

	res, err := svc.Recommend(context.Background(), cultureInput(), nil)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Source != domain.SourceFallback {
		t.Fatalf("expected fallback, got %s", res.Source)
	}
	if provider.calls() != 0 {
		t.Fatalf("expected provider to be skipped, got %d calls", provider.calls())
	}
}

func TestRecommendationService_ForceFallbackKeepsProviderForDetails(t *testing.T) {
	provider := &fakeProvider{responses: []string{detailJSON}, available: true}
	poi := newTestPOIService(provider, memory.NewDestinationRepo())
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), poi, RecommendationServiceConfig{ForceFallback: true})

	input := cultureInput()
	input.Location = "Kyoto"
	res, err := svc.Recommend(context.Background(), input, nil)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Source != domain.SourceFallback {
		t.Fatalf("expected fallback, got %s", res.Source)
	}
	if provider.calls() != 1 || !strings.Contains(provider.prompts[0], "Kyoto") {
		t.Fatalf("expected one destination detail generation, got %d calls", provider.calls())
	}

	status := svc.ProviderStatus(context.Background())
	if !status.APIKeyConfigured || !status.ForceFallback || !status.ProviderAvailable {
		t.Fatalf("expected configured provider under forced fallback, got %+v", status)
	}
}

func TestRecommendationService_POIFailureIsIgnored(t *testing.T) {
	provider := &fakeProvider{responses: []string{llmCandidatesJSON}}
	poi := &fakePOI{err: ErrProviderUnavailable}
	svc := newTestRecommendationService(provider, memory.NewRecommendationRepo(time.Hour), poi, RecommendationServiceConfig{})

	res, err := svc.Recommend(context.Background(), cultureInput(), nil)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Source != domain.SourceLLM {
		t.Fatalf("expected llm source, got %s", res.Source)
	}
	if len(poi.locations) != 1 || poi.locations[0] != domain.AnywhereLocation {
		t.Fatalf("expected anywhere enrichment attempt, got %v", poi.locations)
	}
	if strings.Contains(provider.prompts[0], "Available Places of Interest") {
		t.Fatalf("expected prompt without grounding")
	}
}

func TestRecommendationService_StorageErrorsPropagate(t *testing.T) {
	svc := newTestRecommendationService(nil, &fakeRecommendationRepo{findErr: ports.ErrStorageUnavailable}, nil, RecommendationServiceConfig{})
	if _, err := svc.Recommend(context.Background(), cultureInput(), nil); !errors.Is(err, ports.ErrStorageUnavailable) {
		t.Fatalf("expected storage error from lookup, got %v", err)
	}

	svc = newTestRecommendationService(nil, &fakeRecommendationRepo{findErr: sql.ErrNoRows, insertErr: ports.ErrStorageUnavailable}, nil, RecommendationServiceConfig{})
	if _, err := svc.Recommend(context.Background(), cultureInput(), nil); !errors.Is(err, ports.ErrStorageUnavailable) {
		t.Fatalf("expected storage error from insert, got %v", err)
	}
}

func TestRecommendationService_ArchivesGeneratedSet(t *testing.T) {
	storage := &fakeObjectStorage{}
	archiver := NewArchiver(storage, "tripwise-archive")
	svc := NewRecommendationService(nil, memory.NewRecommendationRepo(time.Hour), nil, archiver, RecommendationServiceConfig{})
	svc.now = func() time.Time { return fixedNow }
	id := uuid.MustParse("5b0c6c1e-8d4e-4f0a-9a43-2f7c0d0b9e11")
	svc.newID = func() uuid.UUID { return id }

	if _, err := svc.Recommend(context.Background(), cultureInput(), nil); err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	archiver.Wait()

	objects := storage.uploaded()
	if len(objects) != 1 {
		t.Fatalf("expected one archived object, got %d", len(objects))
	}
	want := "recommendations/" + id.String() + "/20260314T093000Z.json"
	if objects[0].name != want || objects[0].bucket != "tripwise-archive" {
		t.Fatalf("expected %s in tripwise-archive, got %s in %s", want, objects[0].name, objects[0].bucket)
	}
}

func TestRecommendationService_ProviderStatus(t *testing.T) {
	svc := newTestRecommendationService(nil, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{ProviderName: "groq", ForceFallback: true})
	status := svc.ProviderStatus(context.Background())
	if status.Provider != "groq" || status.APIKeyConfigured || status.ProviderAvailable || !status.ForceFallback {
		t.Fatalf("unexpected status for unconfigured provider: %+v", status)
	}

	svc = newTestRecommendationService(&fakeProvider{available: true}, memory.NewRecommendationRepo(time.Hour), nil, RecommendationServiceConfig{})
	status = svc.ProviderStatus(context.Background())
	if status.Provider != "fake" || !status.APIKeyConfigured || !status.ProviderAvailable {
		t.Fatalf("unexpected status for configured provider: %+v", status)
	}
}
