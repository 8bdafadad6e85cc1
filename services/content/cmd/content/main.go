package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/gramseva/panchayat-backend/pkg/db"
	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/metrics"
	loggingmw "github.com/gramseva/panchayat-backend/pkg/middleware/logging"

	contentcfg "github.com/gramseva/panchayat-backend/services/content/internal/config"
	"github.com/gramseva/panchayat-backend/services/content/internal/drive"
	"github.com/gramseva/panchayat-backend/services/content/internal/events"
	"github.com/gramseva/panchayat-backend/services/content/internal/googleauth"
	"github.com/gramseva/panchayat-backend/services/content/internal/httpserver"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/repo"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
	"github.com/gramseva/panchayat-backend/services/content/internal/tokencipher"
)

func main() {
	if err := godotenv.Load("services/content/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := contentcfg.Load()
	cfg.MustValidate()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Tenant{}, &models.Document{}, &models.GoogleDriveToken{}, &models.UserConsent{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	cipher, err := tokencipher.New(cfg.TokenEncryptionKey)
	if err != nil {
		log.Fatalf("token encryption: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	authManager := googleauth.New(gormRepo, cipher, googleauth.Options{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{cfg.DriveScope},
	})

	driveClient := drive.NewClient(authManager, drive.Options{
		FolderName: cfg.DriveFolderName,
	})

	var publisher service.Publisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	} else {
		log.Printf("warning: KAFKA_BROKERS not set, document events disabled")
	}

	docSvc := &service.DocumentService{Repo: gormRepo, Drive: driveClient, Events: publisher}
	consentSvc := &service.ConsentService{Repo: gormRepo}
	tenantSvc := &service.TenantService{Repo: gormRepo}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.Middleware(cfg.ServiceName))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		GoogleHandler:   &httpserver.GoogleHTTP{Auth: authManager, FrontendURL: cfg.FrontendURL},
		DocumentHandler: &httpserver.DocumentHTTP{Svc: docSvc},
		ConsentHandler:  &httpserver.ConsentHTTP{Svc: consentSvc},
		TenantHandler:   &httpserver.TenantHTTP{Svc: tenantSvc},
		JWTSecret:       cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("content listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("content stopped")
}
