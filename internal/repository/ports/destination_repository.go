package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

// DestinationRepository stores one live detail record per normalized name.
// Lookups return sql.ErrNoRows when nothing matches.
type DestinationRepository interface {
	FindByKey(ctx context.Context, nameKey string) (*domain.DestinationDetail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.DestinationDetail, error)
	// Upsert writes detail keyed by detail.NameKey, keeping the existing id
	// when the key is already present, and returns the stored record.
	Upsert(ctx context.Context, detail *domain.DestinationDetail) (*domain.DestinationDetail, error)
	Search(ctx context.Context, query string, limit int) ([]domain.DestinationDetail, error)
}
