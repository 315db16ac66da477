package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

// fingerprintPayload fixes the field order of the hashed document.
type fingerprintPayload struct {
	Location    string   `json:"location"`
	BudgetRange string   `json:"budgetRange"`
	LengthDays  int      `json:"lengthDays"`
	TravelStyle string   `json:"travelStyle"`
	Interests   []string `json:"interests"`
}

// NormalizeInput trims free-text fields, defaults the location to
// "anywhere" and drops blank interests. Interest order is kept for display.
func NormalizeInput(in domain.UserInput) domain.UserInput {
	out := in
	out.Location = strings.Join(strings.Fields(in.Location), " ")
	if out.Location == "" {
		out.Location = domain.AnywhereLocation
	}
	out.BudgetRange = domain.BudgetRange(strings.ToLower(strings.TrimSpace(string(in.BudgetRange))))
	out.TravelStyle = domain.TravelStyle(strings.ToLower(strings.TrimSpace(string(in.TravelStyle))))

	out.Interests = make([]string, 0, len(in.Interests))
	for _, interest := range in.Interests {
		if interest = strings.TrimSpace(interest); interest != "" {
			out.Interests = append(out.Interests, interest)
		}
	}
	return out
}

// Fingerprint hashes the normalized input. Location and interests compare
// case-insensitively and interests are an unordered set.
func Fingerprint(in domain.UserInput) string {
	in = NormalizeInput(in)

	seen := make(map[string]struct{}, len(in.Interests))
	interests := make([]string, 0, len(in.Interests))
	for _, interest := range in.Interests {
		key := strings.ToLower(interest)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		interests = append(interests, key)
	}
	sort.Strings(interests)

	payload, _ := json.Marshal(fingerprintPayload{
		Location:    strings.ToLower(in.Location),
		BudgetRange: string(in.BudgetRange),
		LengthDays:  in.LengthDays,
		TravelStyle: string(in.TravelStyle),
		Interests:   interests,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
