package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

const defaultSearchLimit = 10

// DestinationDetailer resolves a destination name to a detail record.
type DestinationDetailer interface {
	GetDestinationDetails(ctx context.Context, location string) (*domain.DestinationDetail, error)
}

// DestinationView is a detail record as served to clients. Degraded marks a
// held record returned because regeneration failed.
type DestinationView struct {
	*domain.DestinationDetail
	Degraded bool `json:"degraded,omitempty"`
}

type DestinationService struct {
	destinations ports.DestinationRepository
	details      DestinationDetailer
	log          zerolog.Logger
}

func NewDestinationService(destRepo ports.DestinationRepository, details DestinationDetailer) *DestinationService {
	return &DestinationService{
		destinations: destRepo,
		details:      details,
		log:          logging.With("destination"),
	}
}

// Get resolves idOrName. A UUID is looked up in the store only; anything
// else is treated as a destination name and may trigger generation.
func (s *DestinationService) Get(ctx context.Context, idOrName string) (*DestinationView, error) {
	idOrName = strings.TrimSpace(idOrName)
	if id, err := uuid.Parse(idOrName); err == nil {
		return s.getByID(ctx, id)
	}

	detail, err := s.details.GetDestinationDetails(ctx, idOrName)
	if err == nil {
		return &DestinationView{DestinationDetail: detail}, nil
	}
	if errors.Is(err, ErrInvalidDestinationName) {
		return nil, err
	}

	held, findErr := s.destinations.FindByKey(ctx, domain.NormalizeDestinationKey(idOrName))
	if findErr != nil {
		return nil, err
	}
	s.log.Warn().Err(err).Str("destination", held.NameKey).Msg("serving held destination record after regeneration failed")
	return &DestinationView{DestinationDetail: held, Degraded: true}, nil
}

func (s *DestinationService) getByID(ctx context.Context, id uuid.UUID) (*DestinationView, error) {
	detail, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, fmt.Errorf("find destination %s: %w", id, err)
	}
	return &DestinationView{DestinationDetail: detail}, nil
}

// Search matches cached destinations by name or country.
func (s *DestinationService) Search(ctx context.Context, query string) ([]domain.DestinationDetail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}
	results, err := s.destinations.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search destinations: %w", err)
	}
	return results, nil
}
