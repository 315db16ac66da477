package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

func TestBuildRecommendationPromptEmbedsPreferences(t *testing.T) {
	prompt := BuildRecommendationPrompt(domain.UserInput{
		Location:    "Kyoto",
		BudgetRange: domain.BudgetMedium,
		LengthDays:  7,
		TravelStyle: domain.StyleCulture,
		Interests:   []string{"history", "food"},
	}, nil)

	for _, want := range []string{
		"- Location: Kyoto",
		"- Budget: medium",
		"- Travel Length: 7 days",
		"- Travel Style: culture",
		"- Interests: history, food",
		"exactly 3-5 destination recommendations",
		"Score should be 1-10",
		"max 200 words",
		"A sample 7-day itinerary",
		"Output ONLY valid JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
	if strings.Contains(prompt, "Available Places of Interest") {
		t.Fatal("expected no POI context without POI data")
	}
}

func TestBuildRecommendationPromptDefaults(t *testing.T) {
	prompt := BuildRecommendationPrompt(domain.UserInput{
		BudgetRange: domain.BudgetLow,
		LengthDays:  3,
		TravelStyle: domain.StyleBeach,
		Interests:   []string{" "},
	}, &domain.POIData{Name: "Goa"})

	if !strings.Contains(prompt, "- Location: anywhere") {
		t.Fatal("expected anywhere location")
	}
	if !strings.Contains(prompt, "- Interests: general travel") {
		t.Fatal("expected general travel interests")
	}
	if strings.Contains(prompt, "Available Places of Interest") {
		t.Fatal("expected POI data without places to add no context")
	}
}

func TestBuildRecommendationPromptCapsPOIContext(t *testing.T) {
	poi := &domain.POIData{Name: "Lisbon"}
	for i := 1; i <= 12; i++ {
		poi.TopPlaces = append(poi.TopPlaces, domain.TopPlace{Name: fmt.Sprintf("Place %d", i)})
	}
	poi.TopPlaces[0].Description = "Hilltop castle"

	prompt := BuildRecommendationPrompt(domain.UserInput{
		Location:    "Lisbon",
		BudgetRange: domain.BudgetLow,
		LengthDays:  2,
		TravelStyle: domain.StyleCity,
	}, poi)

	if !strings.Contains(prompt, "Available Places of Interest for Lisbon:") {
		t.Fatal("expected POI heading")
	}
	if !strings.Contains(prompt, "1. Place 1 - Hilltop castle") || !strings.Contains(prompt, "2. Place 2 - Popular attraction") {
		t.Fatal("expected numbered places with default description")
	}
	if !strings.Contains(prompt, "10. Place 10") || strings.Contains(prompt, "Place 11") {
		t.Fatal("expected POI context capped at 10 places")
	}
}

func TestBuildRecommendationPromptIsDeterministic(t *testing.T) {
	in := domain.UserInput{BudgetRange: domain.BudgetHigh, LengthDays: 4, TravelStyle: domain.StyleAdventure, Interests: []string{"ski"}}
	if BuildRecommendationPrompt(in, nil) != BuildRecommendationPrompt(in, nil) {
		t.Fatal("expected identical prompts for identical input")
	}
}

func TestBuildDestinationDetailPrompt(t *testing.T) {
	prompt := BuildDestinationDetailPrompt("  Goa ")
	for _, want := range []string{
		`For the destination "Goa"`,
		"Provide exactly 5 top places",
		"Provide exactly 5 restaurants",
		"Provide exactly 5 stays",
		"between 3.5 and 5.0",
		`"bestTimeToVisit"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
	if !strings.Contains(BuildPopularDestinationPrompt(), "popular travel destination") {
		t.Fatal("expected popular destination wording")
	}
}
