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

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/metrics"
	loggingmw "github.com/gramseva/panchayat-backend/pkg/middleware/logging"

	searchcfg "github.com/gramseva/panchayat-backend/services/search/internal/config"
	"github.com/gramseva/panchayat-backend/services/search/internal/consumer"
	"github.com/gramseva/panchayat-backend/services/search/internal/es"
	"github.com/gramseva/panchayat-backend/services/search/internal/httpserver"
	"github.com/gramseva/panchayat-backend/services/search/internal/index"
	"github.com/gramseva/panchayat-backend/services/search/internal/service"
)

func main() {
	if err := godotenv.Load("services/search/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := searchcfg.Load()
	cfg.MustValidate()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	esClient, err := es.NewClient(es.Options{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
	})
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	indexer := &index.Indexer{ES: esClient, Index: cfg.ESIndex}
	cons := consumer.New(cfg.KafkaBrokers, cfg.KafkaGroupID, indexer)

	consumerCtx, stopConsumer := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go func() {
		if err := cons.Run(consumerCtx); err != nil {
			log.Fatalf("consumer: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.Middleware(cfg.ServiceName))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		SearchHandler: &httpserver.SearchHTTP{
			Svc: &service.SearchService{ES: esClient, Index: cfg.ESIndex},
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("search listening on %s", srv.Addr)
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

	stopConsumer()
	_ = cons.Close()

	log.Println("search stopped")
}
