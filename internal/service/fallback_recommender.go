package service

import (
	"fmt"
	"strings"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

const (
	maxFallbackCandidates = 5
	budgetEntriesKept     = 3
	styleEntriesKept      = 2
)

type budgetDestination struct {
	Name    string
	Country string
	Reason  string
}

var budgetDestinations = map[domain.BudgetRange][]budgetDestination{
	domain.BudgetLow: {
		{"Thailand", "Thailand", "Affordable Southeast Asian destination with rich culture, beautiful beaches, and delicious food. Great value for money."},
		{"Vietnam", "Vietnam", "Budget-friendly destination with stunning landscapes, rich history, and incredible street food scene."},
		{"Nepal", "Nepal", "Perfect for trekking and adventure on a budget. Home to the Himalayas and rich cultural heritage."},
		{"India", "India", "Diverse culture, incredible food, and affordable travel. From mountains to beaches, something for everyone."},
		{"Portugal", "Portugal", "Affordable European destination with beautiful coastlines, historic cities, and great food."},
	},
	domain.BudgetMedium: {
		{"Japan", "Japan", "Perfect blend of traditional culture and modern innovation. Excellent food, safe, and fascinating."},
		{"Spain", "Spain", "Vibrant culture, beautiful architecture, amazing food scene, and diverse landscapes from beaches to mountains."},
		{"Greece", "Greece", "Stunning islands, rich history, delicious Mediterranean cuisine, and beautiful beaches."},
		{"Costa Rica", "Costa Rica", "Eco-tourism paradise with rainforests, beaches, and incredible biodiversity."},
		{"New Zealand", "New Zealand", "Adventure capital with stunning natural beauty, perfect for outdoor activities."},
	},
	domain.BudgetHigh: {
		{"Switzerland", "Switzerland", "Breathtaking Alpine scenery, luxury experiences, and world-class cities."},
		{"Iceland", "Iceland", "Unique landscapes with geysers, glaciers, and Northern Lights. Perfect for nature lovers."},
		{"Maldives", "Maldives", "Luxury beach paradise with overwater bungalows and pristine waters."},
		{"Dubai", "UAE", "Ultra-modern city with luxury shopping, amazing architecture, and desert adventures."},
		{"Norway", "Norway", "Stunning fjords, Northern Lights, and pristine wilderness. Perfect for nature and adventure."},
	},
}

var styleDestinations = map[domain.TravelStyle][]string{
	domain.StyleTrekking:   {"Nepal", "New Zealand", "Peru", "Nepal", "Switzerland"},
	domain.StyleRelaxation: {"Maldives", "Bali", "Thailand", "Greece", "Costa Rica"},
	domain.StyleCulture:    {"Japan", "India", "Italy", "Spain", "Greece"},
	domain.StyleAdventure:  {"New Zealand", "Costa Rica", "Nepal", "Iceland", "Norway"},
	domain.StyleBeach:      {"Maldives", "Thailand", "Greece", "Bali", "Costa Rica"},
	domain.StyleCity:       {"Tokyo", "New York", "London", "Paris", "Dubai"},
}

var placeTemplates = map[domain.TravelStyle][]domain.Place{
	domain.StyleTrekking: {
		{Name: "Mountain Trails", Description: "Scenic hiking routes with stunning views"},
		{Name: "Base Camp", Description: "Starting point for major treks"},
		{Name: "National Park", Description: "Protected wilderness area"},
		{Name: "Viewpoint", Description: "Panoramic mountain vistas"},
		{Name: "Adventure Center", Description: "Outdoor activity hub"},
	},
	domain.StyleRelaxation: {
		{Name: "Beach Resort", Description: "Pristine beaches and calm waters"},
		{Name: "Spa Center", Description: "Wellness and relaxation facilities"},
		{Name: "Scenic Overlook", Description: "Peaceful viewpoints"},
		{Name: "Garden Park", Description: "Tranquil green spaces"},
		{Name: "Cultural Site", Description: "Historic and peaceful location"},
	},
	domain.StyleCulture: {
		{Name: "Historic Museum", Description: "Rich cultural artifacts and history"},
		{Name: "Ancient Temple", Description: "Traditional religious site"},
		{Name: "Cultural District", Description: "Traditional neighborhoods"},
		{Name: "Art Gallery", Description: "Local and international art"},
		{Name: "Historic Square", Description: "Central cultural gathering place"},
	},
}

var defaultPlaces = []domain.Place{
	{Name: "Main Attraction", Description: "Primary tourist destination"},
	{Name: "Historic Site", Description: "Significant historical location"},
	{Name: "Cultural Center", Description: "Local culture and traditions"},
	{Name: "Scenic Viewpoint", Description: "Beautiful panoramic views"},
	{Name: "Local Market", Description: "Authentic local experience"},
}

var dayPlans = map[domain.TravelStyle][]string{
	domain.StyleTrekking: {
		"Morning: Early start for trekking trail",
		"Midday: Reach scenic viewpoint, enjoy packed lunch",
		"Afternoon: Continue trek, explore natural features",
		"Evening: Return to base, rest and local dinner",
	},
	domain.StyleRelaxation: {
		"Morning: Breakfast at resort, beach time",
		"Midday: Spa treatment or pool relaxation",
		"Afternoon: Light exploration or reading",
		"Evening: Sunset viewing and dinner",
	},
	domain.StyleCulture: {
		"Morning: Visit historic museum or temple",
		"Midday: Traditional local lunch",
		"Afternoon: Explore cultural district and markets",
		"Evening: Cultural performance or local dinner",
	},
}

var defaultDayPlan = []string{
	"Morning: Visit main attractions",
	"Midday: Local cuisine experience",
	"Afternoon: Explore neighborhoods",
	"Evening: Relax and enjoy local atmosphere",
}

// FallbackRecommender builds candidates from static tables. It needs no
// network and cannot fail.
type FallbackRecommender struct{}

func NewFallbackRecommender() *FallbackRecommender {
	return &FallbackRecommender{}
}

// Generate returns up to five candidates for input. Scores cycle 7, 8, 9 and
// the itinerary covers Day 1 only.
func (f *FallbackRecommender) Generate(input domain.UserInput) domain.CandidateSet {
	base, ok := budgetDestinations[input.BudgetRange]
	if !ok {
		base = budgetDestinations[domain.BudgetMedium]
	}

	picks := make([]budgetDestination, 0, maxFallbackCandidates)
	if styled, ok := styleDestinations[input.TravelStyle]; ok {
		picks = append(picks, base[:min(budgetEntriesKept, len(base))]...)
		for _, name := range styled[:min(styleEntriesKept, len(styled))] {
			picks = append(picks, budgetDestination{
				Name:    name,
				Country: name,
				Reason:  fmt.Sprintf("Great for %s travel with diverse experiences.", input.TravelStyle),
			})
		}
	} else {
		picks = append(picks, base...)
	}
	if len(picks) > maxFallbackCandidates {
		picks = picks[:maxFallbackCandidates]
	}

	candidates := make([]domain.Candidate, 0, len(picks))
	for i, dest := range picks {
		candidates = append(candidates, domain.Candidate{
			Name:                dest.Name,
			Score:               domain.Score(7 + i%3),
			Reason:              dest.Reason,
			TopPlaces:           fallbackPlaces(input.TravelStyle),
			SampleItineraryText: fallbackItinerary(dest.Name, input.LengthDays, input.TravelStyle),
		})
	}
	return domain.CandidateSet{Candidates: candidates}
}

func fallbackPlaces(style domain.TravelStyle) []domain.Place {
	tmpl, ok := placeTemplates[style]
	if !ok {
		tmpl = defaultPlaces
	}
	return append([]domain.Place(nil), tmpl...)
}

func fallbackItinerary(name string, days int, style domain.TravelStyle) string {
	plan, ok := dayPlans[style]
	if !ok {
		plan = defaultDayPlan
	}
	return fmt.Sprintf("Sample %d-day itinerary for %s:\n\nDay 1:\n%s\n\nNote: Adjust activities based on your interests and check local travel advisories.",
		days, name, strings.Join(plan, "\n"))
}
