package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

var (
	ErrNoJSONFound   = errors.New("no JSON object found in response")
	ErrMalformedJSON = errors.New("malformed JSON in response")
	// ErrInvalidStructure marks a parsed payload that does not satisfy the
	// candidate schema.
	ErrInvalidStructure = errors.New("response does not match the expected structure")
)

// ParseError reports a response that could not be turned into JSON at all.
// Kind is ErrNoJSONFound or ErrMalformedJSON.
type ParseError struct {
	Kind error
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StructuralError reports valid JSON that misses required fields.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidStructure, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrInvalidStructure
}

// ExtractJSON returns the span from the first '{' to the last '}' in text,
// which tolerates prose the model adds around its answer.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", &ParseError{Kind: ErrNoJSONFound}
	}
	return text[start : end+1], nil
}

// Parse decodes the embedded JSON object of text.
func Parse(text string) (map[string]any, error) {
	span, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, &ParseError{Kind: ErrMalformedJSON, Err: err}
	}
	return parsed, nil
}

// Validate reports whether parsed holds a non-empty candidates list in which
// every candidate has a non-empty name and reason. One bad candidate rejects
// the whole set.
func Validate(parsed map[string]any) bool {
	return validateCandidates(parsed) == ""
}

func validateCandidates(parsed map[string]any) string {
	list, ok := parsed["candidates"].([]any)
	if !ok {
		return "candidates is not a list"
	}
	if len(list) == 0 {
		return "candidates is empty"
	}
	for i, item := range list {
		c, ok := item.(map[string]any)
		if !ok {
			return fmt.Sprintf("candidate %d is not an object", i)
		}
		if !nonEmptyString(c["name"]) {
			return fmt.Sprintf("candidate %d has no name", i)
		}
		if !nonEmptyString(c["reason"]) {
			return fmt.Sprintf("candidate %d has no reason", i)
		}
	}
	return ""
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// ParseRecommendations is the single fallible step between raw model output
// and typed candidates. It returns a *ParseError or a *StructuralError on
// failure.
func ParseRecommendations(text string) (*domain.CandidateSet, error) {
	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if reason := validateCandidates(parsed); reason != "" {
		return nil, &StructuralError{Reason: reason}
	}

	raw, err := json.Marshal(parsed["candidates"])
	if err != nil {
		return nil, &StructuralError{Reason: err.Error()}
	}
	var candidates []domain.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, &StructuralError{Reason: "candidate fields have unexpected types: " + err.Error()}
	}
	for i := range candidates {
		candidates[i].Name = strings.TrimSpace(candidates[i].Name)
		candidates[i].Reason = strings.TrimSpace(candidates[i].Reason)
		if candidates[i].TopPlaces == nil {
			candidates[i].TopPlaces = []domain.Place{}
		}
	}
	return &domain.CandidateSet{Candidates: candidates}, nil
}

type rawCoordinates struct {
	Lat domain.Score `json:"lat"`
	Lon domain.Score `json:"lon"`
}

type rawDetail struct {
	Name            string              `json:"name"`
	Country         string              `json:"country"`
	Coords          *rawCoordinates     `json:"coords"`
	Summary         string              `json:"summary"`
	BestTimeToVisit string              `json:"bestTimeToVisit"`
	TopPlaces       []domain.TopPlace   `json:"topPlaces"`
	Restaurants     []domain.Restaurant `json:"restaurants"`
	Stays           []domain.Stay       `json:"stays"`
}

// ParseDestinationDetail decodes a detail answer. Missing lists become empty
// lists: a partial record is still useful to a page renderer.
func ParseDestinationDetail(text string) (*domain.DestinationDetail, error) {
	span, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var raw rawDetail
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, &ParseError{Kind: ErrMalformedJSON, Err: err}
	}

	detail := &domain.DestinationDetail{
		Name:            strings.TrimSpace(raw.Name),
		Country:         strings.TrimSpace(raw.Country),
		Summary:         strings.TrimSpace(raw.Summary),
		BestTimeToVisit: strings.TrimSpace(raw.BestTimeToVisit),
		TopPlaces:       raw.TopPlaces,
		Restaurants:     raw.Restaurants,
		Stays:           raw.Stays,
	}
	if raw.Coords != nil {
		detail.Coords = &domain.Coordinates{Lat: float64(raw.Coords.Lat), Lon: float64(raw.Coords.Lon)}
	}
	if detail.TopPlaces == nil {
		detail.TopPlaces = []domain.TopPlace{}
	}
	if detail.Restaurants == nil {
		detail.Restaurants = []domain.Restaurant{}
	}
	if detail.Stays == nil {
		detail.Stays = []domain.Stay{}
	}
	return detail, nil
}
