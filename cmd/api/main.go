package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	authHttp "site-analytics-service/internal/auth/adapters/http/fiber"
	authRepoPg "site-analytics-service/internal/auth/adapters/postgres"
	authUsecase "site-analytics-service/internal/auth/core/usecase"

	sitesHttp "site-analytics-service/internal/sites/adapters/http/fiber"
	sitesRepoPg "site-analytics-service/internal/sites/adapters/postgres"
	sitesUsecase "site-analytics-service/internal/sites/core/usecase"

	eventsHttp "site-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "site-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "site-analytics-service/internal/events/core/usecase"

	statsHttp "site-analytics-service/internal/stats/adapters/http/fiber"
	statsRepoPg "site-analytics-service/internal/stats/adapters/postgres"
	statsUsecase "site-analytics-service/internal/stats/core/usecase"

	"site-analytics-service/internal/config"
	"site-analytics-service/internal/db/migrate"
	"site-analytics-service/internal/logging"
	"site-analytics-service/internal/security"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "site-analytics-service/docs"
)

// @title Site Analytics Service API
// @version 1.0
// @description Multi-tenant web analytics: event ingestion, scoped aggregation, overrides, export.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("config load failed")
	}

	log := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	// Schema
	if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping postgres")
	}

	// Shared security primitives
	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewSessionTokens(cfg.SessionSecret, cfg.SessionDuration())

	// Adapter-level DB wrappers
	authDB := authRepoPg.NewSQLDB(db)
	sitesDB := sitesRepoPg.NewSQLDB(db)
	eventsDB := eventsRepoPg.NewSQLDB(db)
	statsDB := statsRepoPg.NewSQLDB(db)

	// Repositories
	userRepository := authRepoPg.NewUserRepository(authDB)
	siteRepository := sitesRepoPg.NewSiteRepository(sitesDB)
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)
	siteAccess := statsRepoPg.NewSiteAccessRepository(statsDB)
	eventReader := statsRepoPg.NewEventReadRepository(statsDB)
	overrideRepository := statsRepoPg.NewOverrideRepository(statsDB)

	// Usecases
	authUC := authUsecase.NewAuthUseCase(userRepository, hasher)
	sitesUC := sitesUsecase.NewSitesUseCase(siteRepository)
	storeEventsUC := eventsUsecase.NewStoreEventsUseCase(eventRepository)

	gate := statsUsecase.NewScopeGate(siteAccess)
	getStatsUC := statsUsecase.NewGetStatsUseCase(gate, eventReader, overrideRepository).
		WithLegacyClickTags(cfg.LegacyClickTags)
	overridesUC := statsUsecase.NewOverridesUseCase(gate, overrideRepository)
	resetEventsUC := statsUsecase.NewResetEventsUseCase(gate, eventReader)

	// HTTP (Fiber) app + handlers
	app := fiber.New()
	app.Use(logging.RequestLogger(log))

	// auth endpoints
	authHandler := authHttp.NewAuthHandler(authUC, tokens)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", authHandler.Logout)
	app.Get("/auth/me", authHandler.RequirePrincipal, authHandler.Me)

	// site endpoints
	siteHandler := sitesHttp.NewSiteHandler(sitesUC, cfg.SnippetBaseURL)
	app.Post("/sites", authHandler.RequirePrincipal, siteHandler.RegisterSite)
	app.Get("/sites", authHandler.RequirePrincipal, siteHandler.ListSites)
	app.Delete("/sites/:site_id", authHandler.RequirePrincipal, siteHandler.DeleteSite)
	app.Get("/snippet/:site_id.js", siteHandler.Snippet)

	// ingestion endpoint, no session required: it is hit by visitor browsers
	eventHandler := eventsHttp.NewEventHandler(storeEventsUC)
	app.Post("/events", eventHandler.CreateEvents)

	// stats endpoints
	statsHandler := statsHttp.NewStatsHandler(getStatsUC, overridesUC, resetEventsUC)
	app.Get("/stats", authHandler.RequirePrincipal, statsHandler.GetStats)
	app.Get("/stats/export", authHandler.RequirePrincipal, statsHandler.ExportStats)
	app.Post("/stats/label", authHandler.RequirePrincipal, statsHandler.SetLabel)
	app.Post("/stats/mute", authHandler.RequirePrincipal, statsHandler.ToggleMute)
	app.Delete("/stats/overrides/stale", authHandler.RequirePrincipal, statsHandler.CleanupStaleOverrides)
	app.Delete("/events", authHandler.RequirePrincipal, statsHandler.ResetEvents)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("fiber stopped")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown error")
	}

	log.Info().Msg("server exiting")
}
