package llm

import (
	"fmt"
	"strings"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

// MaxPromptPlaces bounds the POI context embedded in a recommendation prompt.
const MaxPromptPlaces = 10

// candidateSchema is the shape ParseRecommendations expects back. Keep the
// two in step.
const candidateSchema = `{
  "candidates": [
    {
      "name": "Destination Name",
      "score": 8,
      "reason": "Short 2-3 sentence reason why this destination fits the user's preferences",
      "topPlaces": [
        {"name": "Place 1", "description": "Brief description"},
        {"name": "Place 2", "description": "Brief description"},
        {"name": "Place 3", "description": "Brief description"},
        {"name": "Place 4", "description": "Brief description"},
        {"name": "Place 5", "description": "Brief description"}
      ],
      "sampleItineraryText": "A sample %d-day itinerary with activities and timings"
    }
  ]
}`

const detailSchema = `{
  "name": "Full destination name",
  "country": "Country name",
  "coords": {
    "lat": approximate latitude (number),
    "lon": approximate longitude (number)
  },
  "summary": "Brief 2-3 sentence description of the destination",
  "bestTimeToVisit": "Best months or season to visit (e.g., 'November to February' or 'March to May')",
  "topPlaces": [
    {
      "name": "Place/attraction name",
      "description": "Brief description (1-2 sentences)",
      "category": "attraction type (e.g., 'beach', 'temple', 'fort', 'museum')"
    }
  ],
  "restaurants": [
    {
      "name": "Restaurant name",
      "description": "Brief description (1-2 sentences)",
      "location": "Area or address",
      "rating": rating number (1-5),
      "priceRange": "low" or "medium" or "high",
      "cuisine": "Cuisine type (e.g., 'Indian', 'Seafood', 'Continental')"
    }
  ],
  "stays": [
    {
      "name": "Property name",
      "description": "Brief description (1-2 sentences)",
      "location": "Area or address",
      "rating": rating number (1-5),
      "priceRange": "low" or "medium" or "high",
      "type": "Property type (e.g., 'hotel', 'resort', 'homestay', 'villa')"
    }
  ]
}`

// BuildRecommendationPrompt renders the recommendation request for input,
// grounded on poi when it carries places.
func BuildRecommendationPrompt(input domain.UserInput, poi *domain.POIData) string {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = domain.AnywhereLocation
	}
	interests := joinInterests(input.Interests)

	var b strings.Builder
	b.WriteString("You are an expert travel assistant. Generate travel destination recommendations in JSON format only.\n\n")
	b.WriteString("User Preferences:\n")
	fmt.Fprintf(&b, "- Location: %s\n", location)
	fmt.Fprintf(&b, "- Budget: %s\n", input.BudgetRange)
	fmt.Fprintf(&b, "- Travel Length: %d days\n", input.LengthDays)
	fmt.Fprintf(&b, "- Travel Style: %s\n", input.TravelStyle)
	fmt.Fprintf(&b, "- Interests: %s\n", interests)

	if ctx := poiContext(poi); ctx != "" {
		b.WriteString(ctx)
		b.WriteString("\n")
	}

	b.WriteString("\nOutput exactly 3-5 destination recommendations in this JSON format (no extra text, only valid JSON):\n")
	fmt.Fprintf(&b, candidateSchema, input.LengthDays)
	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Keep all text concise (max 200 words per destination)\n")
	b.WriteString("- Score should be 1-10 based on how well it matches preferences\n")
	b.WriteString("- Top 5 places should be real, popular attractions for each destination\n")
	fmt.Fprintf(&b, "- Sample itinerary should be practical and realistic for %d days\n", input.LengthDays)
	fmt.Fprintf(&b, "- Consider budget range: %s\n", input.BudgetRange)
	fmt.Fprintf(&b, "- Consider travel style: %s\n", input.TravelStyle)
	fmt.Fprintf(&b, "- Consider interests: %s\n", interests)
	b.WriteString("- Output ONLY valid JSON, no markdown, no code blocks, no explanations")
	return b.String()
}

func poiContext(poi *domain.POIData) string {
	if poi == nil || len(poi.TopPlaces) == 0 {
		return ""
	}
	name := strings.TrimSpace(poi.Name)
	if name == "" {
		name = "the location"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nAvailable Places of Interest for %s:", name)
	for i, place := range poi.TopPlaces {
		if i == MaxPromptPlaces {
			break
		}
		desc := strings.TrimSpace(place.Description)
		if desc == "" {
			desc = "Popular attraction"
		}
		fmt.Fprintf(&b, "\n%d. %s - %s", i+1, place.Name, desc)
	}
	return b.String()
}

func joinInterests(interests []string) string {
	kept := make([]string, 0, len(interests))
	for _, it := range interests {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return "general travel"
	}
	return strings.Join(kept, ", ")
}

// BuildDestinationDetailPrompt asks for the full detail record of location.
func BuildDestinationDetailPrompt(location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel information assistant. For the destination %q, provide comprehensive travel information in JSON format only.\n\n", strings.TrimSpace(location))
	b.WriteString("Return a JSON object with this exact structure (no extra text, only valid JSON):\n")
	b.WriteString(detailSchema)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Provide exactly 5 top places\n")
	b.WriteString("- Provide exactly 5 restaurants\n")
	b.WriteString("- Provide exactly 5 stays\n")
	b.WriteString("- Use real, well-known places, restaurants, and properties for this destination\n")
	b.WriteString("- Ratings should be realistic (between 3.5 and 5.0)\n")
	b.WriteString("- Coordinates should be approximate but reasonable for the location\n")
	b.WriteString("- All descriptions should be concise (1-2 sentences max)\n")
	b.WriteString("- Output ONLY valid JSON, no markdown, no code blocks, no explanations")
	return b.String()
}

// BuildPopularDestinationPrompt asks the model to pick one well-known
// destination and describe it with the detail schema.
func BuildPopularDestinationPrompt() string {
	var b strings.Builder
	b.WriteString("You are a travel information assistant. Provide information about a popular travel destination in JSON format only.\n\n")
	b.WriteString("Return a JSON object with this exact structure (no extra text, only valid JSON):\n")
	b.WriteString(detailSchema)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Choose a well-known, popular travel destination (e.g., Paris, Tokyo, New York)\n")
	b.WriteString("- Provide exactly 5 top places, 5 restaurants and 5 stays\n")
	b.WriteString("- Use real, famous attractions/places for this destination\n")
	b.WriteString("- Ratings should be realistic (between 3.5 and 5.0)\n")
	b.WriteString("- Coordinates should be approximate but reasonable\n")
	b.WriteString("- All descriptions should be concise (1-2 sentences max)\n")
	b.WriteString("- Output ONLY valid JSON, no markdown, no code blocks, no explanations")
	return b.String()
}
