package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Pinger is the slice of the database pool the health check needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	DashboardHandler *DashboardHandler
	WebHandler       *WebHandler

	// SessionAPI guards JSON routes (401); SessionPage guards rendered
	// pages (redirect to /login)
	SessionAPI  echo.MiddlewareFunc
	SessionPage echo.MiddlewareFunc

	DB Pinger
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Validator = NewRequestValidator()

	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for high-frequency polling endpoints to reduce noise
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/api/dashboard") {
				return true
			}
			return path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := config.DB.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   "signalboard",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", config.AuthHandler.Signup)
		authGroup.POST("/login", config.AuthHandler.Login)
		authGroup.POST("/logout", config.AuthHandler.Logout)
		authGroup.GET("/me", config.AuthHandler.Me)
	}

	// Dashboard routes (protected)
	dash := api.Group("/dashboard", config.SessionAPI)
	{
		dash.GET("", config.DashboardHandler.GetDashboard)
		dash.GET("/token", config.DashboardHandler.GetToken)
		dash.GET("/positions", config.DashboardHandler.GetPositions)
	}

	// Server-rendered pages
	e.GET("/", config.WebHandler.HandleIndex)
	e.GET("/login", config.WebHandler.HandleLogin)
	e.GET("/dashboard", config.WebHandler.HandleDashboard, config.SessionPage)
}
