package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suretyledger-service/internal/infrastructure/config"
	"suretyledger-service/internal/infrastructure/notify"
	"suretyledger-service/internal/infrastructure/persistence"
	"suretyledger-service/internal/infrastructure/treasury"
	"suretyledger-service/internal/interface/httpapi"
	ledgerRepo "suretyledger-service/internal/interface/repository"
	"suretyledger-service/internal/ledger"
	"suretyledger-service/internal/usecase"
	"suretyledger-service/pkg/logger"
	"suretyledger-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger("suretyledger")
	log.Info("Starting Surety Ledger Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoConnectTimeout)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up PostgreSQL for the audit journal
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up snapshot repositories
	airlineRepository := ledgerRepo.NewMongoAirlineRepository(db)
	flightRepository := ledgerRepo.NewMongoFlightRepository(db)
	creditRepository := ledgerRepo.NewMongoCreditRepository(db)
	eventRepository, err := ledgerRepo.NewGormEventRepository(gormDB)
	if err != nil {
		log.Fatal("Failed to set up event journal", "error", err)
	}

	// Set up metrics and event fanout
	m := metrics.NewMetrics(cfg.MetricsNamespace)
	fanout := notify.NewFanout(log)
	fanout.Register(notify.NewLoggerSink(log))
	fanout.Register(notify.NewJournalSink(eventRepository, log))
	fanout.Register(notify.NewMetricsSink(m))

	// Set up the ledger engine
	store := ledger.NewStore(cfg.OwnerAddress)
	engine := usecase.NewEngine(
		store,
		airlineRepository,
		flightRepository,
		creditRepository,
		treasury.NewLogTreasury(log),
		fanout,
		log,
		m,
		cfg.MinimumStake,
		cfg.InsuranceCap,
	)

	// Warm the ledger from persisted snapshots
	if err := engine.Restore(ctx); err != nil {
		log.Fatal("Failed to restore ledger", "error", err)
	}

	// Pre-register the founding airline
	if cfg.FounderAddress != "" {
		if err := engine.Bootstrap(ctx, cfg.FounderAddress, cfg.FounderName); err != nil {
			log.Fatal("Failed to bootstrap founding airline", "error", err)
		}
	}

	// Authorize the orchestration collaborators
	for _, addr := range cfg.AuthorizedCallers {
		if err := engine.AuthorizeCaller(ctx, cfg.OwnerAddress, addr); err != nil {
			log.Fatal("Failed to authorize caller", "address", addr, "error", err)
		}
	}

	// Set up HTTP server
	apiRouter := httpapi.NewRouter(engine, log)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiRouter.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Surety Ledger Service stopped")
}
