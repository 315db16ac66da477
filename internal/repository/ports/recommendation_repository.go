package ports

import (
	"context"
	"time"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

type RecommendationRepository interface {
	// FindLatestByFingerprint returns the newest set for fingerprint created
	// at or after since, or sql.ErrNoRows.
	FindLatestByFingerprint(ctx context.Context, fingerprint string, since time.Time) (*domain.RecommendationSet, error)
	Insert(ctx context.Context, set *domain.RecommendationSet) error
}
