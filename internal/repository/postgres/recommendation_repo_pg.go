package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

var _ ports.RecommendationRepository = (*RecommendationRepository)(nil)

type RecommendationRepository struct {
	db *sqlx.DB
}

func NewRecommendationRepo(db *sqlx.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

type recommendationRow struct {
	ID          uuid.UUID      `db:"id"`
	UserID      *uuid.UUID     `db:"user_id"`
	InputHash   string         `db:"input_hash"`
	Location    string         `db:"location"`
	BudgetRange string         `db:"budget_range"`
	LengthDays  int            `db:"length_days"`
	TravelStyle string         `db:"travel_style"`
	Interests   pq.StringArray `db:"interests"`
	Candidates  []byte         `db:"candidates"`
	Source      string         `db:"source"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (row recommendationRow) toDomain() (*domain.RecommendationSet, error) {
	var candidates []domain.Candidate
	if err := json.Unmarshal(row.Candidates, &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates of %s: %w", row.ID, err)
	}
	return &domain.RecommendationSet{
		ID:          row.ID,
		UserID:      row.UserID,
		Fingerprint: row.InputHash,
		Input: domain.UserInput{
			Location:    row.Location,
			BudgetRange: domain.BudgetRange(row.BudgetRange),
			LengthDays:  row.LengthDays,
			TravelStyle: domain.TravelStyle(row.TravelStyle),
			Interests:   []string(row.Interests),
		},
		Candidates: candidates,
		Source:     domain.RecommendationSource(row.Source),
		CreatedAt:  row.CreatedAt,
	}, nil
}

func (r *RecommendationRepository) FindLatestByFingerprint(ctx context.Context, fingerprint string, since time.Time) (*domain.RecommendationSet, error) {
	const query = `
		SELECT id, user_id, input_hash, location, budget_range, length_days,
		       travel_style, interests, candidates, source, created_at
		FROM recommendation_set
		WHERE input_hash = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var row recommendationRow
	if err := r.db.GetContext(ctx, &row, query, fingerprint, since); err != nil {
		return nil, wrapErr("find recommendation set", err)
	}
	return row.toDomain()
}

func (r *RecommendationRepository) Insert(ctx context.Context, set *domain.RecommendationSet) error {
	const query = `
		INSERT INTO recommendation_set (
			id, user_id, input_hash, location, budget_range, length_days,
			travel_style, interests, candidates, source, created_at
		) VALUES (
			:id, :user_id, :input_hash, :location, :budget_range, :length_days,
			:travel_style, :interests, CAST(:candidates AS JSONB), :source, :created_at
		)
	`
	candidates, err := json.Marshal(set.Candidates)
	if err != nil {
		return fmt.Errorf("encode candidates: %w", err)
	}
	interests := set.Input.Interests
	if interests == nil {
		interests = []string{}
	}

	args := map[string]any{
		"id":           set.ID,
		"user_id":      set.UserID,
		"input_hash":   set.Fingerprint,
		"location":     set.Input.Location,
		"budget_range": string(set.Input.BudgetRange),
		"length_days":  set.Input.LengthDays,
		"travel_style": string(set.Input.TravelStyle),
		"interests":    pq.StringArray(interests),
		"candidates":   string(candidates),
		"source":       string(set.Source),
		"created_at":   set.CreatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return wrapErr("insert recommendation set", err)
	}
	return nil
}
