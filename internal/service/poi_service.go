package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/llm"
	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/metrics"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

const (
	defaultDestinationTTL     = 7 * 24 * time.Hour
	defaultDetailMaxTokens    = 2500
	defaultDetailTemperature  = 0.5
	defaultPopularTemperature = 0.7
	popularFlightKey          = "\x00popular"
)

type POIServiceConfig struct {
	CacheTTL           time.Duration
	MaxTokens          int
	// Nil temperatures use the defaults; zero is a valid setting.
	Temperature        *float64
	PopularTemperature *float64
	Retries            int
}

// POIService generates and caches destination detail records. A nil
// provider leaves it able to serve fresh cached records only.
type POIService struct {
	provider     llm.Provider
	destinations ports.DestinationRepository
	archiver     *Archiver

	ttl                time.Duration
	maxTokens          int
	temperature        float64
	popularTemperature float64
	retries            int

	group singleflight.Group
	now   func() time.Time
	log   zerolog.Logger
}

func NewPOIService(provider llm.Provider, destinations ports.DestinationRepository, archiver *Archiver, cfg POIServiceConfig) *POIService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultDestinationTTL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultDetailMaxTokens
	}
	temperature := temperatureOr(cfg.Temperature, defaultDetailTemperature)
	popular := temperatureOr(cfg.PopularTemperature, defaultPopularTemperature)
	retries := cfg.Retries
	if retries < 0 {
		retries = llm.DefaultRetries
	}

	return &POIService{
		provider:           provider,
		destinations:       destinations,
		archiver:           archiver,
		ttl:                ttl,
		maxTokens:          maxTokens,
		temperature:        temperature,
		popularTemperature: popular,
		retries:            retries,
		now:                time.Now,
		log:                logging.With("poi"),
	}
}

// GetDestinationDetails returns the cached record for location when it is
// fresh and complete, and generates a new one otherwise. Generation errors
// are returned as is; the caller decides whether a held record may be served.
func (s *POIService) GetDestinationDetails(ctx context.Context, location string) (*domain.DestinationDetail, error) {
	key := domain.NormalizeDestinationKey(location)
	if key == "" {
		return nil, ErrInvalidDestinationName
	}

	cached, err := s.destinations.FindByKey(ctx, key)
	switch {
	case err == nil:
		result := s.cacheState(cached)
		metrics.DestinationCacheTotal.WithLabelValues(result).Inc()
		if result == "hit" {
			return cached, nil
		}
		if result == "incomplete" {
			s.log.Info().Str("destination", key).Msg("cached destination missing restaurants or stays, regenerating")
		} else {
			s.log.Debug().Str("destination", key).Time("cached_at", cached.CachedAt).Msg("cached destination is stale, regenerating")
		}
	case isNotFound(err):
		metrics.DestinationCacheTotal.WithLabelValues("miss").Inc()
	default:
		return nil, fmt.Errorf("find destination %q: %w", key, err)
	}

	name := strings.Join(strings.Fields(location), " ")
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.generateDetail(context.WithoutCancel(ctx), key, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.DestinationDetail), nil
}

// PopularDestination has the model pick one well-known destination and
// caches its detail record under the generated name.
func (s *POIService) PopularDestination(ctx context.Context) (*domain.DestinationDetail, error) {
	v, err, _ := s.group.Do(popularFlightKey, func() (any, error) {
		return s.generatePopular(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.DestinationDetail), nil
}

// GetPOIData returns the prompt grounding subset for location, with at most
// limit places. "anywhere" resolves to a generated popular destination.
func (s *POIService) GetPOIData(ctx context.Context, location string, limit int) (*domain.POIData, error) {
	var (
		detail *domain.DestinationDetail
		err    error
	)
	if (domain.UserInput{Location: location}).IsAnywhere() {
		detail, err = s.PopularDestination(ctx)
	} else {
		detail, err = s.GetDestinationDetails(ctx, location)
	}
	if err != nil {
		return nil, err
	}
	return detail.POIData(limit), nil
}

func (s *POIService) cacheState(d *domain.DestinationDetail) string {
	switch {
	case !d.IsFresh(s.now(), s.ttl):
		return "stale"
	case !d.IsComplete():
		return "incomplete"
	default:
		return "hit"
	}
}

func (s *POIService) generateDetail(ctx context.Context, key, requested string) (*domain.DestinationDetail, error) {
	detail, err := s.generate(ctx, llm.BuildDestinationDetailPrompt(requested), s.temperature)
	if err != nil {
		return nil, err
	}
	detail.NameKey = key
	if detail.Name == "" {
		detail.Name = requested
	}
	return s.store(ctx, detail)
}

func (s *POIService) generatePopular(ctx context.Context) (*domain.DestinationDetail, error) {
	detail, err := s.generate(ctx, llm.BuildPopularDestinationPrompt(), s.popularTemperature)
	if err != nil {
		return nil, err
	}
	detail.NameKey = domain.NormalizeDestinationKey(detail.Name)
	if detail.NameKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrDestinationGeneration, errPopularDestinationEmpty)
	}
	return s.store(ctx, detail)
}

func (s *POIService) generate(ctx context.Context, prompt string, temperature float64) (*domain.DestinationDetail, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	text, err := s.provider.Generate(ctx, prompt,
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(temperature),
		llm.WithRetries(s.retries),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestinationGeneration, err)
	}
	detail, err := llm.ParseDestinationDetail(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestinationGeneration, err)
	}
	return detail, nil
}

func (s *POIService) store(ctx context.Context, detail *domain.DestinationDetail) (*domain.DestinationDetail, error) {
	detail.CachedAt = s.now().UTC()
	stored, err := s.destinations.Upsert(ctx, detail)
	if err != nil {
		return nil, fmt.Errorf("store destination %q: %w", detail.NameKey, err)
	}
	s.archiver.Archive(archiveObjectName("destinations", stored.ID.String(), stored.CachedAt), stored)
	return stored, nil
}

func archiveObjectName(prefix, id string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", prefix, id, at.UTC().Format("20060102T150405Z"))
}

func temperatureOr(v *float64, def float64) float64 {
	if v == nil || *v < 0 {
		return def
	}
	return *v
}
