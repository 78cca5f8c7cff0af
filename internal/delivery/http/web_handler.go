package http

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"signalboard/internal/auth"
	"signalboard/internal/domain"
	"signalboard/internal/middleware"
	"signalboard/internal/service"
)

// WebHandler renders the server-side pages. The dashboard page is a thin
// view over the dashboard service's snapshot; all polling and merging
// happens in the service.
type WebHandler struct {
	templates *template.Template
	dashboard *service.DashboardService
	positions PositionsClient
	codec     *auth.TokenCodec
	cookies   *auth.CookieManager
	log       *logrus.Logger
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	templates *template.Template,
	dashboard *service.DashboardService,
	positions PositionsClient,
	codec *auth.TokenCodec,
	cookies *auth.CookieManager,
	log *logrus.Logger,
) *WebHandler {
	return &WebHandler{
		templates: templates,
		dashboard: dashboard,
		positions: positions,
		codec:     codec,
		cookies:   cookies,
		log:       log,
	}
}

// dashboardPage is the template payload for the dashboard view
type dashboardPage struct {
	Email        string
	Snapshot     service.DashboardSnapshot
	Active       *service.TokenView
	Positions    *domain.PositionsResponse
	PositionsErr bool
}

// HandleIndex redirects to the dashboard or the login page depending on
// whether a valid session is present.
// GET /
func (h *WebHandler) HandleIndex(c echo.Context) error {
	if h.hasValidSession(c) {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.Redirect(http.StatusFound, "/login")
}

// HandleLogin renders the login/signup page
// GET /login
func (h *WebHandler) HandleLogin(c echo.Context) error {
	// If already logged in, redirect to dashboard
	if h.hasValidSession(c) {
		return c.Redirect(http.StatusFound, "/dashboard")
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "login", nil)
}

// HandleDashboard renders the dashboard page from the current snapshot
// GET /dashboard (session required)
func (h *WebHandler) HandleDashboard(c echo.Context) error {
	email, err := middleware.GetEmail(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	page := dashboardPage{
		Email:    email,
		Snapshot: h.dashboard.Snapshot(),
	}

	if view, ok := h.dashboard.ActiveToken(); ok {
		page.Active = &view
	}

	positions, err := h.positions.Positions(c.Request().Context())
	if err != nil {
		// Stale-but-shown: the rest of the page still renders
		h.log.WithError(err).Warn("positions fetch failed for dashboard page")
		page.PositionsErr = true
	} else {
		page.Positions = positions
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "dashboard", page)
}

func (h *WebHandler) hasValidSession(c echo.Context) bool {
	token, ok := h.cookies.ReadFromRequest(c.Request())
	if !ok {
		return false
	}
	_, err := h.codec.Verify(token)
	return err == nil
}
