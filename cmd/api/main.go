package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Open-AIP/OpenAIP-sub005/internal/audit"
	"github.com/Open-AIP/OpenAIP-sub005/internal/config"
	"github.com/Open-AIP/OpenAIP-sub005/internal/database"
	"github.com/Open-AIP/OpenAIP-sub005/internal/database/migration"
	handlers "github.com/Open-AIP/OpenAIP-sub005/internal/http/handler"
	"github.com/Open-AIP/OpenAIP-sub005/internal/http/middleware"
	"github.com/Open-AIP/OpenAIP-sub005/internal/otel"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository/postgres"
	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	ctx := context.Background()

	// Tracing; degrades to a noop provider when the collector is unreachable
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Repositories
	aipRepo := postgres.NewAipPostgres(db)
	ledger := postgres.NewReviewLedgerPostgres(db)
	feedbackRepo := postgres.NewFeedbackPostgres(db)
	profileRepo := postgres.NewProfilePostgres(db)

	// Services
	emitter := audit.NewLogEmitter()
	reviewSvc := service.NewReviewService(aipRepo, ledger, feedbackRepo, profileRepo, emitter)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, profileRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))

	// Prometheus request metrics plus a /metrics scrape endpoint
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, reviewSvc, feedbackSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
