package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AnywhereLocation is the location used when the traveller has no place in mind.
const AnywhereLocation = "anywhere"

type BudgetRange string

const (
	BudgetLow    BudgetRange = "low"
	BudgetMedium BudgetRange = "medium"
	BudgetHigh   BudgetRange = "high"
)

type TravelStyle string

const (
	StyleTrekking   TravelStyle = "trekking"
	StyleRelaxation TravelStyle = "relaxation"
	StyleCulture    TravelStyle = "culture"
	StyleAdventure  TravelStyle = "adventure"
	StyleBeach      TravelStyle = "beach"
	StyleCity       TravelStyle = "city"
)

type RecommendationSource string

const (
	SourceLLM      RecommendationSource = "llm"
	SourceFallback RecommendationSource = "fallback"
)

// UserInput is the validated preference set that enters the recommendation pipeline.
type UserInput struct {
	Location    string      `json:"location" validate:"max=120"`
	BudgetRange BudgetRange `json:"budgetRange" validate:"required,oneof=low medium high"`
	LengthDays  int         `json:"lengthDays" validate:"required,min=1,max=30"`
	TravelStyle TravelStyle `json:"travelStyle" validate:"required,oneof=trekking relaxation culture adventure beach city"`
	Interests   []string    `json:"interests" validate:"max=20,dive,max=64"`
}

// IsAnywhere reports whether the input carries no concrete destination.
func (in UserInput) IsAnywhere() bool {
	loc := strings.TrimSpace(in.Location)
	return loc == "" || strings.EqualFold(loc, AnywhereLocation)
}

// Place is a named point of interest attached to a recommendation candidate.
type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts either an object or a bare string, since models
// sometimes list places as plain names.
func (p *Place) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Name = name
		return nil
	}
	type plain Place
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Place(v)
	return nil
}

// Score is a 1-10 fit score. It decodes from JSON numbers or numeric strings.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Score(f)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		*s = 0
		return nil
	}
	*s = Score(f)
	return nil
}

type Candidate struct {
	Name                string  `json:"name"`
	Score               Score   `json:"score"`
	Reason              string  `json:"reason"`
	TopPlaces           []Place `json:"topPlaces"`
	SampleItineraryText string  `json:"sampleItineraryText"`
}

// CandidateSet is the generated payload before it is persisted.
type CandidateSet struct {
	Candidates []Candidate `json:"candidates"`
}

// RecommendationSet is a persisted, immutable cache entry keyed by input fingerprint.
type RecommendationSet struct {
	ID          uuid.UUID            `db:"id" json:"id"`
	UserID      *uuid.UUID           `db:"user_id" json:"user_id,omitempty"`
	Fingerprint string               `db:"input_hash" json:"input_hash"`
	Input       UserInput            `db:"-" json:"input"`
	Candidates  []Candidate          `db:"-" json:"candidates"`
	Source      RecommendationSource `db:"source" json:"source"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}

// RecommendationResult is what the orchestrator hands back to the transport layer.
type RecommendationResult struct {
	Candidates []Candidate          `json:"candidates"`
	Cached     bool                 `json:"cached"`
	Source     RecommendationSource `json:"source"`
	Timestamp  time.Time            `json:"timestamp"`
}
