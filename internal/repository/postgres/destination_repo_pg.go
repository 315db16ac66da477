package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

var _ ports.DestinationRepository = (*DestinationRepository)(nil)

type DestinationRepository struct {
	db *sqlx.DB
}

func NewDestinationRepo(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

const destinationColumns = `
	id, name, name_key, country, latitude, longitude, summary,
	best_time_to_visit, top_places, restaurants, stays, cached_at
`

type destinationRow struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	NameKey         string          `db:"name_key"`
	Country         string          `db:"country"`
	Latitude        sql.NullFloat64 `db:"latitude"`
	Longitude       sql.NullFloat64 `db:"longitude"`
	Summary         string          `db:"summary"`
	BestTimeToVisit string          `db:"best_time_to_visit"`
	TopPlaces       []byte          `db:"top_places"`
	Restaurants     []byte          `db:"restaurants"`
	Stays           []byte          `db:"stays"`
	CachedAt        time.Time       `db:"cached_at"`
}

func (row destinationRow) toDomain() (*domain.DestinationDetail, error) {
	detail := &domain.DestinationDetail{
		ID:              row.ID,
		Name:            row.Name,
		NameKey:         row.NameKey,
		Country:         row.Country,
		Summary:         row.Summary,
		BestTimeToVisit: row.BestTimeToVisit,
		CachedAt:        row.CachedAt,
		TopPlaces:       []domain.TopPlace{},
		Restaurants:     []domain.Restaurant{},
		Stays:           []domain.Stay{},
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		detail.Coords = &domain.Coordinates{Lat: row.Latitude.Float64, Lon: row.Longitude.Float64}
	}
	if err := decodeList(row.TopPlaces, &detail.TopPlaces); err != nil {
		return nil, fmt.Errorf("decode top places of %s: %w", row.ID, err)
	}
	if err := decodeList(row.Restaurants, &detail.Restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants of %s: %w", row.ID, err)
	}
	if err := decodeList(row.Stays, &detail.Stays); err != nil {
		return nil, fmt.Errorf("decode stays of %s: %w", row.ID, err)
	}
	return detail, nil
}

// decodeList leaves dst untouched for SQL NULL or JSON null.
func decodeList[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out != nil {
		*dst = out
	}
	return nil
}

func encodeList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *DestinationRepository) FindByKey(ctx context.Context, nameKey string) (*domain.DestinationDetail, error) {
	query := `SELECT ` + destinationColumns + ` FROM destination_detail WHERE name_key = $1`
	var row destinationRow
	if err := r.db.GetContext(ctx, &row, query, nameKey); err != nil {
		return nil, wrapErr("find destination by key", err)
	}
	return row.toDomain()
}

func (r *DestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DestinationDetail, error) {
	query := `SELECT ` + destinationColumns + ` FROM destination_detail WHERE id = $1`
	var row destinationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, wrapErr("find destination by id", err)
	}
	return row.toDomain()
}

func (r *DestinationRepository) Upsert(ctx context.Context, detail *domain.DestinationDetail) (*domain.DestinationDetail, error) {
	query := `
		INSERT INTO destination_detail (
			id, name, name_key, country, latitude, longitude, summary,
			best_time_to_visit, top_places, restaurants, stays, cached_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			CAST($9 AS JSONB), CAST($10 AS JSONB), CAST($11 AS JSONB), $12
		)
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			summary = EXCLUDED.summary,
			best_time_to_visit = EXCLUDED.best_time_to_visit,
			top_places = EXCLUDED.top_places,
			restaurants = EXCLUDED.restaurants,
			stays = EXCLUDED.stays,
			cached_at = EXCLUDED.cached_at
		RETURNING ` + destinationColumns

	topPlaces, err := encodeList(detail.TopPlaces)
	if err != nil {
		return nil, fmt.Errorf("encode top places: %w", err)
	}
	restaurants, err := encodeList(detail.Restaurants)
	if err != nil {
		return nil, fmt.Errorf("encode restaurants: %w", err)
	}
	stays, err := encodeList(detail.Stays)
	if err != nil {
		return nil, fmt.Errorf("encode stays: %w", err)
	}

	id := detail.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var lat, lon sql.NullFloat64
	if detail.Coords != nil {
		lat = sql.NullFloat64{Float64: detail.Coords.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: detail.Coords.Lon, Valid: true}
	}

	var row destinationRow
	err = r.db.GetContext(ctx, &row, query,
		id, detail.Name, detail.NameKey, detail.Country, lat, lon, detail.Summary,
		detail.BestTimeToVisit, topPlaces, restaurants, stays, detail.CachedAt,
	)
	if err != nil {
		return nil, wrapErr("upsert destination", err)
	}
	return row.toDomain()
}

func (r *DestinationRepository) Search(ctx context.Context, query string, limit int) ([]domain.DestinationDetail, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []domain.DestinationDetail{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	stmt := `
		SELECT ` + destinationColumns + `
		FROM destination_detail
		WHERE name ILIKE $1 OR country ILIKE $1
		ORDER BY name ASC
		LIMIT $2
	`
	var rows []destinationRow
	if err := r.db.SelectContext(ctx, &rows, stmt, containsPattern(trimmed), limit); err != nil {
		return nil, wrapErr("search destinations", err)
	}
	out := make([]domain.DestinationDetail, 0, len(rows))
	for _, row := range rows {
		detail, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *detail)
	}
	return out, nil
}
