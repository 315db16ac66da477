// Package memory holds in-process store implementations backed by go-cache.
// They serve local development and tests; data does not survive a restart.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

var _ ports.RecommendationRepository = (*RecommendationRepository)(nil)

// RecommendationRepository keeps every set inserted for a fingerprint until
// retention elapses after the last insert.
type RecommendationRepository struct {
	mu    sync.Mutex
	items *cache.Cache
}

func NewRecommendationRepo(retention time.Duration) *RecommendationRepository {
	if retention <= 0 {
		retention = cache.NoExpiration
	}
	return &RecommendationRepository{items: cache.New(retention, 10*time.Minute)}
}

func (r *RecommendationRepository) FindLatestByFingerprint(_ context.Context, fingerprint string, since time.Time) (*domain.RecommendationSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.items.Get(fingerprint)
	if !ok {
		return nil, sql.ErrNoRows
	}
	var latest *domain.RecommendationSet
	for _, set := range raw.([]domain.RecommendationSet) {
		if set.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || set.CreatedAt.After(latest.CreatedAt) {
			s := set
			latest = &s
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return cloneSet(latest), nil
}

func (r *RecommendationRepository) Insert(_ context.Context, set *domain.RecommendationSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sets []domain.RecommendationSet
	if raw, ok := r.items.Get(set.Fingerprint); ok {
		sets = raw.([]domain.RecommendationSet)
	}
	next := make([]domain.RecommendationSet, 0, len(sets)+1)
	next = append(next, sets...)
	next = append(next, *cloneSet(set))
	r.items.SetDefault(set.Fingerprint, next)
	return nil
}

func cloneSet(set *domain.RecommendationSet) *domain.RecommendationSet {
	out := *set
	out.Input.Interests = append([]string(nil), set.Input.Interests...)
	out.Candidates = make([]domain.Candidate, len(set.Candidates))
	for i, c := range set.Candidates {
		c.TopPlaces = append([]domain.Place(nil), c.TopPlaces...)
		out.Candidates[i] = c
	}
	if set.UserID != nil {
		id := *set.UserID
		out.UserID = &id
	}
	return &out
}
