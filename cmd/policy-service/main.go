package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"policy-service/internal/auth"
	"policy-service/internal/config"
	"policy-service/internal/db"
	httphandler "policy-service/internal/http"
	"policy-service/internal/http/middleware"
	"policy-service/internal/logger"
	"policy-service/internal/render"
	"policy-service/internal/repository"
	"policy-service/internal/service"
	"policy-service/internal/vehicles"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	layout := render.DefaultLayout()
	if cfg.PDF.AnnotationsPath != "" {
		annotated, found, err := render.AnnotatedLayout(cfg.PDF.AnnotationsPath)
		switch {
		case err != nil:
			appLogger.Warn().Err(err).Str("path", cfg.PDF.AnnotationsPath).Msg("failed to read annotations, using default layout")
		case !found:
			appLogger.Warn().Str("path", cfg.PDF.AnnotationsPath).Msg("name/address region not found, using default layout")
		default:
			layout = annotated
		}
	}
	renderer := render.NewRenderer(cfg.PDF.TemplatePath, layout)
	if _, err := os.Stat(cfg.PDF.TemplatePath); err != nil {
		appLogger.Warn().Err(err).Str("path", cfg.PDF.TemplatePath).Msg("pdf template is not readable, generation will fail")
	}

	var (
		journal        service.PolicyJournal
		authMiddleware gin.HandlerFunc
	)
	if cfg.JournalEnabled() {
		database, err := db.New(cfg, appLogger)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect database")
		}
		journal = repository.NewPolicyRepository(database)
		authMiddleware = middleware.Auth(auth.NewParser(cfg.Auth.AccessSecret), cfg.Auth.JournalRoles...)
	} else {
		appLogger.Info().Msg("DB_DSN not set, policy journal disabled")
	}

	textService := service.NewTextService()
	policyService := service.NewPolicyService(renderer, journal, cfg.PDF.FontSize, appLogger)
	catalog := vehicles.NewCatalog(cfg.Vehicles.CatalogPath, cfg.Vehicles.CacheTTL)

	handler := httphandler.NewHandler(textService, policyService, catalog, appLogger)
	router, err := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.BodyLimit, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to build router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting policy service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
