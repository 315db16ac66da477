package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type TopPlace struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

type Restaurant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Rating      Score  `json:"rating"`
	PriceRange  string `json:"priceRange,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
}

type Stay struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Rating      Score  `json:"rating"`
	PriceRange  string `json:"priceRange,omitempty"`
	Type        string `json:"type,omitempty"`
}

// DestinationDetail is the POI enrichment record cached per destination name.
type DestinationDetail struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	NameKey         string       `db:"name_key" json:"-"`
	Country         string       `db:"country" json:"country"`
	Coords          *Coordinates `db:"-" json:"coords,omitempty"`
	Summary         string       `db:"summary" json:"summary"`
	BestTimeToVisit string       `db:"best_time_to_visit" json:"bestTimeToVisit,omitempty"`
	TopPlaces       []TopPlace   `db:"-" json:"topPlaces"`
	Restaurants     []Restaurant `db:"-" json:"restaurants"`
	Stays           []Stay       `db:"-" json:"stays"`
	CachedAt        time.Time    `db:"cached_at" json:"cachedAt"`
}

// IsComplete reports whether the record carries the restaurant and stay lists.
// Records written before those lists existed are valid but incomplete.
func (d *DestinationDetail) IsComplete() bool {
	return len(d.Restaurants) > 0 && len(d.Stays) > 0
}

// IsFresh reports whether the record is within the freshness window at now.
func (d *DestinationDetail) IsFresh(now time.Time, ttl time.Duration) bool {
	if d.CachedAt.IsZero() {
		return false
	}
	return now.Sub(d.CachedAt) <= ttl
}

// POIData projects the lightweight subset used as prompt grounding.
func (d *DestinationDetail) POIData(limit int) *POIData {
	places := d.TopPlaces
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	out := make([]TopPlace, len(places))
	copy(out, places)
	return &POIData{
		Name:      d.Name,
		Country:   d.Country,
		Coords:    d.Coords,
		Summary:   d.Summary,
		TopPlaces: out,
	}
}

// POIData is the grounding context handed to the prompt builder.
type POIData struct {
	Name      string       `json:"name"`
	Country   string       `json:"country"`
	Coords    *Coordinates `json:"coords,omitempty"`
	Summary   string       `json:"summary"`
	TopPlaces []TopPlace   `json:"topPlaces"`
}

// Places converts the POI list to candidate places.
func (p *POIData) Places() []Place {
	out := make([]Place, 0, len(p.TopPlaces))
	for _, tp := range p.TopPlaces {
		out = append(out, Place{Name: tp.Name, Description: tp.Description})
	}
	return out
}

// NormalizeDestinationKey turns a user-supplied destination name into the
// literal cache key: trimmed, lower-cased, inner whitespace collapsed.
func NormalizeDestinationKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
