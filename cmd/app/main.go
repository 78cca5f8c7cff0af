package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"signalboard/configs"
	"signalboard/internal/adapter/signalapi"
	"signalboard/internal/auth"
	"signalboard/internal/database"
	delivery "signalboard/internal/delivery/http"
	"signalboard/internal/infra"
	"signalboard/internal/logger"
	"signalboard/internal/middleware"
	"signalboard/internal/repository"
	"signalboard/internal/service"
	"signalboard/web"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Load configuration; a missing DATABASE_URL is fatal
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("database connected")

	if err := database.RunMigrations(ctx, db, log); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Auth primitives
	userRepo := repository.NewUserRepository(db)
	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	cookies := auth.NewCookieManager(cfg.Auth.SecureCookies)

	// Signal API client and dashboard poller
	apiClient := signalapi.NewClient(cfg.SignalAPI.BaseURL)
	dashboard := service.NewDashboardService(apiClient, log)

	pollCtx, cancelPolls := context.WithCancel(ctx)
	defer cancelPolls()

	if err := dashboard.Start(pollCtx); err != nil {
		log.WithError(err).Fatal("failed to start dashboard poller")
	}
	defer dashboard.Stop()

	// Page templates
	templates, err := web.Templates()
	if err != nil {
		log.WithError(err).Fatal("failed to parse templates")
	}

	// Handlers
	authHandler := delivery.NewAuthHandler(userRepo, codec, cookies, log)
	dashboardHandler := delivery.NewDashboardHandler(dashboard, apiClient, log)
	webHandler := delivery.NewWebHandler(templates, dashboard, apiClient, codec, cookies, log)

	// HTTP server
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		WebHandler:       webHandler,
		SessionAPI:       middleware.RequireSession(codec, cookies),
		SessionPage:      middleware.RequireSessionPage(codec, cookies),
		DB:               db,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()
	log.WithField("addr", addr).WithField("env", cfg.Server.Env).Info("signalboard started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	cancelPolls()
	dashboard.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited gracefully")
}
