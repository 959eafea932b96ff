package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/TuanVuuuu/petcare-api/pkg/health"
	"github.com/TuanVuuuu/petcare-api/pkg/httpclient"
	pkgkafka "github.com/TuanVuuuu/petcare-api/pkg/kafka"
	"github.com/TuanVuuuu/petcare-api/pkg/middleware"
	"github.com/TuanVuuuu/petcare-api/pkg/tracing"

	"github.com/TuanVuuuu/petcare-api/internal/config"
	"github.com/TuanVuuuu/petcare-api/internal/event"
	"github.com/TuanVuuuu/petcare-api/internal/gateway/firebase"
	handler "github.com/TuanVuuuu/petcare-api/internal/handler/http"
	fsrepo "github.com/TuanVuuuu/petcare-api/internal/repository/firestore"
	"github.com/TuanVuuuu/petcare-api/internal/service"
)

// App wires together all dependencies and runs the petcare API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	store          *firestore.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "petcare-api",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	credentials, err := cfg.ServiceAccountJSON()
	if err != nil {
		return nil, err
	}

	// Identity platform gateway.
	identity, err := firebase.New(ctx, cfg.FirebaseProjectID, credentials, cfg.FirebaseAPIKey,
		httpclient.New(httpclient.DefaultConfig()), logger)
	if err != nil {
		return nil, fmt.Errorf("init identity gateway: %w", err)
	}
	logger.Info("identity gateway initialized", slog.String("project_id", cfg.FirebaseProjectID))

	// Document store client.
	store, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("connect to firestore: %w", err)
	}
	logger.Info("connected to Firestore", slog.String("project_id", cfg.FirebaseProjectID))

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	profileRepo := fsrepo.NewProfileRepository(store)
	petRepo := fsrepo.NewPetRepository(store)
	eventProducer := event.NewProducer(producer, logger)
	authService := service.NewAuthService(identity, profileRepo, eventProducer, logger)
	petService := service.NewPetService(petRepo, eventProducer, logger)

	// Health checks. Firestore is the only critical backend: without it
	// neither profiles nor pets can be served.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("firestore", func(ctx context.Context) error {
		iter := store.Collections(ctx)
		if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
			return err
		}
		return nil
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(authService, petService, healthHandler, logger, middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		store:          store,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Firestore client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests, up to 5s.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 4. Close Firestore client.
	if err := a.store.Close(); err != nil {
		a.logger.Error("firestore close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
