package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

var _ ports.DestinationRepository = (*DestinationRepository)(nil)

const (
	keyPrefix = "key:"
	idPrefix  = "id:"
)

// DestinationRepository never expires entries itself; staleness is decided
// by the caller from CachedAt.
type DestinationRepository struct {
	mu    sync.Mutex
	items *cache.Cache
}

func NewDestinationRepo() *DestinationRepository {
	return &DestinationRepository{items: cache.New(cache.NoExpiration, 0)}
}

func (r *DestinationRepository) FindByKey(_ context.Context, nameKey string) (*domain.DestinationDetail, error) {
	raw, ok := r.items.Get(keyPrefix + nameKey)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneDetail(raw.(domain.DestinationDetail)), nil
}

func (r *DestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DestinationDetail, error) {
	raw, ok := r.items.Get(idPrefix + id.String())
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r.FindByKey(ctx, raw.(string))
}

func (r *DestinationRepository) Upsert(_ context.Context, detail *domain.DestinationDetail) (*domain.DestinationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *cloneDetail(*detail)
	if raw, ok := r.items.Get(keyPrefix + detail.NameKey); ok {
		stored.ID = raw.(domain.DestinationDetail).ID
	} else if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	r.items.SetDefault(keyPrefix+stored.NameKey, stored)
	r.items.SetDefault(idPrefix+stored.ID.String(), stored.NameKey)
	return cloneDetail(stored), nil
}

func (r *DestinationRepository) Search(_ context.Context, query string, limit int) ([]domain.DestinationDetail, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []domain.DestinationDetail{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var matches []domain.DestinationDetail
	for key, item := range r.items.Items() {
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		detail := item.Object.(domain.DestinationDetail)
		if strings.Contains(strings.ToLower(detail.Name), needle) || strings.Contains(strings.ToLower(detail.Country), needle) {
			matches = append(matches, *cloneDetail(detail))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []domain.DestinationDetail{}
	}
	return matches, nil
}

func cloneDetail(d domain.DestinationDetail) *domain.DestinationDetail {
	out := d
	if d.Coords != nil {
		c := *d.Coords
		out.Coords = &c
	}
	out.TopPlaces = append([]domain.TopPlace{}, d.TopPlaces...)
	out.Restaurants = append([]domain.Restaurant{}, d.Restaurants...)
	out.Stays = append([]domain.Stay{}, d.Stays...)
	return &out
}
