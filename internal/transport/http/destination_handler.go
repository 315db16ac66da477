package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
	"github.com/njprem/TripWise_APP_BackEnd/internal/service"
	"github.com/njprem/TripWise_APP_BackEnd/internal/util"
)

type DestinationFinder interface {
	Get(ctx context.Context, idOrName string) (*service.DestinationView, error)
	Search(ctx context.Context, query string) ([]domain.DestinationDetail, error)
}

type DestinationHandler struct {
	destinations DestinationFinder
}

func RegisterDestinations(e *echo.Echo, destinations DestinationFinder) {
	h := &DestinationHandler{destinations: destinations}

	public := e.Group("/api/v1/destinations")
	public.GET("/search", h.search)
	public.GET("/:id", h.getDestination)
}

func (h *DestinationHandler) getDestination(c echo.Context) error {
	key := strings.TrimSpace(c.Param("id"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, util.Error("identifier required"))
	}

	view, err := h.destinations.Get(c.Request().Context(), key)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *DestinationHandler) search(c echo.Context) error {
	results, err := h.destinations.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}
