package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/llm"
)

type fakeProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	options   []llm.GenerateOptions
	available bool
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	p.options = append(p.options, llm.NewGenerateOptions(opts...))
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return "", nil
	}
	resp := p.responses[0]
	if len(p.responses) > 1 {
		p.responses = p.responses[1:]
	}
	return resp, nil
}

func (p *fakeProvider) CheckAvailability(context.Context) bool { return p.available }

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

type fakePOI struct {
	data      *domain.POIData
	err       error
	locations []string
}

func (f *fakePOI) GetPOIData(_ context.Context, location string, _ int) (*domain.POIData, error) {
	f.locations = append(f.locations, location)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeRecommendationRepo struct {
	findErr   error
	insertErr error
}

func (r *fakeRecommendationRepo) FindLatestByFingerprint(context.Context, string, time.Time) (*domain.RecommendationSet, error) {
	return nil, r.findErr
}

func (r *fakeRecommendationRepo) Insert(context.Context, *domain.RecommendationSet) error {
	return r.insertErr
}

type uploadedObject struct {
	bucket      string
	name        string
	contentType string
	body        []byte
}

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects []uploadedObject
	err     error
}

func (s *fakeObjectStorage) EnsureBucket(context.Context, string) error { return nil }

func (s *fakeObjectStorage) Upload(_ context.Context, bucket, objectName, contentType string, reader io.Reader, _ int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.objects = append(s.objects, uploadedObject{bucket: bucket, name: objectName, contentType: contentType, body: buf.Bytes()})
	return "http://storage/" + bucket + "/" + objectName, nil
}

func (s *fakeObjectStorage) uploaded() []uploadedObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uploadedObject(nil), s.objects...)
}

const detailJSON = `{
  "name": "Kyoto",
  "country": "Japan",
  "coords": {"lat": 35.01, "lon": 135.77},
  "summary": "Former imperial capital.",
  "bestTimeToVisit": "Spring",
  "topPlaces": [
    {"name": "Fushimi Inari", "description": "Torii gates", "category": "shrine"},
    {"name": "Kinkaku-ji", "description": "Golden pavilion", "category": "temple"},
    {"name": "Arashiyama", "description": "Bamboo grove", "category": "nature"}
  ],
  "restaurants": [{"name": "Kikunoi", "description": "Kaiseki", "rating": 4.8}],
  "stays": [{"name": "Tawaraya", "description": "Ryokan", "rating": "4.9"}]
}`

func completeDetail(name string, cachedAt time.Time) *domain.DestinationDetail {
	return &domain.DestinationDetail{
		Name:        name,
		NameKey:     domain.NormalizeDestinationKey(name),
		Country:     "Japan",
		Summary:     "cached",
		TopPlaces:   []domain.TopPlace{{Name: "Cached Place", Description: "from store"}},
		Restaurants: []domain.Restaurant{{Name: "Cached Restaurant", Rating: 4.5}},
		Stays:       []domain.Stay{{Name: "Cached Stay", Rating: 4.2}},
		CachedAt:    cachedAt,
	}
}
