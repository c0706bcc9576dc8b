package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkAvailabilityHandler "github.com/friplass/booking-api/internal/api/handlers/check_availability"
	checkDirectBookingHandler "github.com/friplass/booking-api/internal/api/handlers/check_direct_booking"
	checkoutHandler "github.com/friplass/booking-api/internal/api/handlers/checkout_partials"
	createPartialHandler "github.com/friplass/booking-api/internal/api/handlers/create_partial_application"
	deletePartialHandler "github.com/friplass/booking-api/internal/api/handlers/delete_partial_application"
	getApplicationHandler "github.com/friplass/booking-api/internal/api/handlers/get_application"
	getBuildingFreetimeHandler "github.com/friplass/booking-api/internal/api/handlers/get_building_freetime"
	getPartialsHandler "github.com/friplass/booking-api/internal/api/handlers/get_partial_applications"
	getResourceFreetimeHandler "github.com/friplass/booking-api/internal/api/handlers/get_resource_freetime"
	validateCheckoutHandler "github.com/friplass/booking-api/internal/api/handlers/validate_checkout"
	"github.com/friplass/booking-api/internal/api/middleware"
	"github.com/friplass/booking-api/internal/config"
	"github.com/friplass/booking-api/internal/infra/notify"
	applicationRepo "github.com/friplass/booking-api/internal/infra/storage/application"
	resourceRepo "github.com/friplass/booking-api/internal/infra/storage/resource"
	scheduleRepo "github.com/friplass/booking-api/internal/infra/storage/schedule"
	notifyServiceClient "github.com/friplass/booking-api/internal/integrations/notifyservice"
	applicationsService "github.com/friplass/booking-api/internal/service/applications"
	directBookingService "github.com/friplass/booking-api/internal/service/directbooking"
	checkAvailabilityUC "github.com/friplass/booking-api/internal/usecase/check_availability"
	checkoutUC "github.com/friplass/booking-api/internal/usecase/checkout"
	getFreetimeUC "github.com/friplass/booking-api/internal/usecase/get_freetime"
	"github.com/friplass/booking-api/pkg/dbmetrics"
	"github.com/friplass/booking-api/pkg/logger"
	"github.com/friplass/booking-api/pkg/metrics"
	"github.com/friplass/booking-api/pkg/simpletxmanager"
	"github.com/friplass/booking-api/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-api...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Notification client initialized (url=%s timeout=%ds)",
		cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	var (
		applicationRepository *applicationRepo.Repository
		resourceRepository    *resourceRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		applicationRepository = applicationRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		applicationRepository = applicationRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	queueMetrics := notify.QueueMetrics{}
	if cfg.Metrics.Enabled {
		queueMetrics.Depth = metricsCollector.NotifyQueueDepth.WithLabelValues("checkout")
		queueMetrics.Dropped = metricsCollector.NotifyDropped.WithLabelValues("checkout")
	}
	notifyQueue := notify.NewQueue(notifyClient, cfg.NotifyQueue.Size, log, queueMetrics)
	defer notifyQueue.Close()

	evaluator := directBookingService.NewEvaluator(applicationRepository, resourceRepository, log)
	applicationsSvc := applicationsService.NewService(applicationRepository, evaluator, log)

	freetimeUseCase := getFreetimeUC.NewUseCase(resourceRepository, scheduleRepository, log)
	checkoutUseCase := checkoutUC.NewUseCase(
		applicationRepository,
		scheduleRepository,
		evaluator,
		txMgr,
		notifyQueue,
		log,
	)
	availabilityUseCase := checkAvailabilityUC.NewUseCase(
		resourceRepository,
		scheduleRepository,
		applicationRepository,
		log,
	)

	getResourceFreetime := getResourceFreetimeHandler.NewHandler(freetimeUseCase, log)
	getBuildingFreetime := getBuildingFreetimeHandler.NewHandler(freetimeUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilityUseCase, log)
	doCheckout := checkoutHandler.NewHandler(checkoutUseCase, log)
	validateCheckout := validateCheckoutHandler.NewHandler(checkoutUseCase, log)
	getPartials := getPartialsHandler.NewHandler(applicationsSvc, log)
	createPartial := createPartialHandler.NewHandler(applicationsSvc, log)
	deletePartial := deletePartialHandler.NewHandler(applicationsSvc, log)
	getApplication := getApplicationHandler.NewHandler(applicationsSvc, log)
	checkDirectBooking := checkDirectBookingHandler.NewHandler(applicationsSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Session)

	// Public routes: slot grids and the availability check. The check uses
	// the session when present but does not require one.
	api.HandleFunc("/resources/{resourceId}/freetime",
		getResourceFreetime.Handle).Methods(http.MethodGet)
	api.HandleFunc("/buildings/{buildingId}/freetime",
		getBuildingFreetime.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/availability",
		checkAvailability.Handle).Methods(http.MethodPost)

	// Session routes: drafts and checkout belong to an anonymous session.
	session := api.PathPrefix("").Subrouter()
	session.Use(middleware.RequireSession)

	session.HandleFunc("/applications/partials", getPartials.Handle).Methods(http.MethodGet)
	session.HandleFunc("/applications/partials", createPartial.Handle).Methods(http.MethodPost)
	session.HandleFunc("/applications/partials/{applicationId}", deletePartial.Handle).Methods(http.MethodDelete)
	session.HandleFunc("/applications/checkout", doCheckout.Handle).Methods(http.MethodPost)
	session.HandleFunc("/applications/checkout/validate", validateCheckout.Handle).Methods(http.MethodPost)
	session.HandleFunc("/applications/{applicationId}", getApplication.Handle).Methods(http.MethodGet)
	session.HandleFunc("/applications/{applicationId}/direct-booking", checkDirectBooking.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
