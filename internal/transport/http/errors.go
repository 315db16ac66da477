package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/TripWise_APP_BackEnd/internal/service"
	"github.com/njprem/TripWise_APP_BackEnd/internal/util"
)

func writeServiceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, util.ErrorDetails("invalid request", verr.Violations))
	case errors.Is(err, service.ErrInvalidDestinationName), errors.Is(err, service.ErrSearchQueryRequired):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrDestinationNotFound):
		return c.JSON(http.StatusNotFound, util.Error("destination not found"))
	case errors.Is(err, service.ErrProviderUnavailable), errors.Is(err, ports.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, util.Error("service temporarily unavailable"))
	case errors.Is(err, service.ErrDestinationGeneration):
		logging.Warn().Err(err).Str("uri", c.Request().RequestURI).Msg("destination generation failed")
		return c.JSON(http.StatusBadGateway, util.Error("unable to generate destination details"))
	default:
		logging.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
}
