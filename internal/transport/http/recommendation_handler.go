package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/service"
	"github.com/njprem/TripWise_APP_BackEnd/internal/util"
)

type Recommender interface {
	Recommend(ctx context.Context, input domain.UserInput, userID *uuid.UUID) (*domain.RecommendationResult, error)
	ProviderStatus(ctx context.Context) service.ProviderStatus
}

type RecommendationHandler struct {
	recommender Recommender
}

func RegisterRecommendations(e *echo.Echo, recommender Recommender, jwtManager *util.JWTManager) {
	h := &RecommendationHandler{recommender: recommender}
	e.POST("/api/v1/search/recommend", h.recommend, OptionalAuth(jwtManager))
	e.GET("/api/v1/ai/health", h.aiHealth)
}

const maxRequestBody = 64 << 10

// lengthDays accepts a JSON number or a numeric string.
type lengthDays int

func (l *lengthDays) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if raw == "" || raw == "null" {
		*l = 0
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return err
		}
		v = int(f)
	}
	*l = lengthDays(v)
	return nil
}

type recommendRequest struct {
	Location    string     `json:"location"`
	BudgetRange string     `json:"budgetRange"`
	LengthDays  lengthDays `json:"lengthDays"`
	TravelStyle string     `json:"travelStyle"`
	Interests   []string   `json:"interests"`
}

func (r recommendRequest) toInput() domain.UserInput {
	return domain.UserInput{
		Location:    r.Location,
		BudgetRange: domain.BudgetRange(r.BudgetRange),
		LengthDays:  int(r.LengthDays),
		TravelStyle: domain.TravelStyle(r.TravelStyle),
		Interests:   r.Interests,
	}
}

// decodeRecommendRequest reads each field on its own. A field of the wrong
// type is left zero so validation reports it together with every other
// violation.
func decodeRecommendRequest(body []byte) (recommendRequest, error) {
	var req recommendRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return req, err
	}
	req.Location = decodeField[string](fields, "location")
	req.BudgetRange = decodeField[string](fields, "budgetRange")
	req.LengthDays = decodeField[lengthDays](fields, "lengthDays")
	req.TravelStyle = decodeField[string](fields, "travelStyle")
	req.Interests = decodeField[[]string](fields, "interests")
	return req, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string) T {
	var v T
	raw, ok := fields[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

func (h *RecommendationHandler) recommend(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBody))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	req, err := decodeRecommendRequest(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	userID, _ := CurrentUserID(c)
	result, err := h.recommender.Recommend(c.Request().Context(), req.toInput(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *RecommendationHandler) aiHealth(c echo.Context) error {
	status := h.recommender.ProviderStatus(c.Request().Context())
	return c.JSON(http.StatusOK, util.Envelope{
		"status":    "ok",
		"llm":       status,
		"timestamp": timeNow().UTC(),
	})
}
