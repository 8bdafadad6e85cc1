package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gramseva/panchayat-backend/gateway/internal/config"
	"github.com/gramseva/panchayat-backend/gateway/internal/httpserver"
	"github.com/gramseva/panchayat-backend/gateway/internal/middleware"
	"github.com/gramseva/panchayat-backend/pkg/logging"
	loggingmw "github.com/gramseva/panchayat-backend/pkg/middleware/logging"
	"github.com/gramseva/panchayat-backend/pkg/middleware/csrf"
)

func main() {
	if err := godotenv.Load("gateway/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "gateway")
	slog.SetDefault(logger)

	e := echo.New()
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 60 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	for _, m := range middleware.Common() {
		e.Use(m)
	}
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.SkipPaths = []string{
		"/health/live",
		"/health/ready",
		"/api/v1/auth/login",
		"/api/v1/auth/register",
		"/api/v1/auth/refresh",
		"/api/v1/auth/google/callback",
	}
	e.Use(csrf.Middleware(csrfCfg))

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:    cfg.AuthURL,
		ContentURL: cfg.ContentURL,
		SearchURL:  cfg.SearchURL,
		JWTSecret:  cfg.JWTSecret,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		log.Printf("gateway listening on %s", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
