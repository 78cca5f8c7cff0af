package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"signalboard/internal/domain"
	"signalboard/internal/service"
)

// Search/dashboard messages shown to the user
const (
	msgEmptyQuery    = "Enter a token symbol to search."
	msgTokenNotFound = "Token not found or API error. Try BTC, ETH, SOL, XRP."
	msgUpstreamDown  = "Signal API is unavailable."
)

// PositionsClient is the slice of the signal API client the dashboard
// handler needs for the positions table
type PositionsClient interface {
	Positions(ctx context.Context) (*domain.PositionsResponse, error)
}

// DashboardHandler serves the polled dashboard state as JSON
type DashboardHandler struct {
	dashboard *service.DashboardService
	positions PositionsClient
	log       *logrus.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *service.DashboardService, positions PositionsClient, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		positions: positions,
		log:       log,
	}
}

// GetDashboard returns the current aggregate snapshot with history buffers
// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Snapshot())
}

// GetToken searches for a token and returns its metrics plus history.
// The searched token becomes the actively watched one.
// GET /api/dashboard/token?token=SYMBOL
func (h *DashboardHandler) GetToken(c echo.Context) error {
	view, err := h.dashboard.Search(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuery):
			return BadRequestResponse(c, msgEmptyQuery)
		case errors.Is(err, domain.ErrTokenNotFound):
			return NotFoundResponse(c, msgTokenNotFound)
		default:
			h.log.WithError(err).Warn("token search failed")
			return BadGatewayResponse(c, msgUpstreamDown)
		}
	}

	return c.JSON(http.StatusOK, view)
}

// GetPositions proxies the open positions table from the signal API
// GET /api/dashboard/positions
func (h *DashboardHandler) GetPositions(c echo.Context) error {
	res, err := h.positions.Positions(c.Request().Context())
	if err != nil {
		h.log.WithError(err).Warn("positions fetch failed")
		return BadGatewayResponse(c, msgUpstreamDown)
	}

	return c.JSON(http.StatusOK, res)
}
