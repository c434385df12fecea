// @title EcoTrace Backend API
// @version 1.0
// @description EcoTrace Backend API for AI-powered environmental impact analysis
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "ECOTRACE_BACK-END/docs" // This is required for swagger
	"ECOTRACE_BACK-END/internal/analyzer"
	"ECOTRACE_BACK-END/internal/config"
	"ECOTRACE_BACK-END/internal/handlers"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/routes"
	"ECOTRACE_BACK-END/internal/security"
	"ECOTRACE_BACK-END/internal/services"
	"ECOTRACE_BACK-END/internal/store"
	"ECOTRACE_BACK-END/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Set up pgxpool + simple protocol (needed behind PgBouncer)
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		logger.Fatal("failed to parse DSN", zap.Error(err))
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "ecotrace-backend"
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("database ping failed", zap.Error(err))
		}
	}

	db := store.New(pool)
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
		defer cancel()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
	}

	// --- Services ---
	codec := token.NewCodec(cfg.Security.TokenSecret)
	hasher := security.NewPasswordHasher()
	identityService := services.NewIdentityService(codec, db, logger)
	authService := services.NewAuthService(codec, hasher, db, logger)
	historyService := services.NewHistoryService(identityService, db, logger)
	ollamaAnalyzer := analyzer.NewOllamaAnalyzer(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout, logger)

	// --- HTTP Handlers ---
	authHandler := handlers.NewAuthHandler(authService, identityService, logger)
	analyzeHandler := handlers.NewAnalyzeHandler(ollamaAnalyzer, historyService, logger)
	historyHandler := handlers.NewHistoryHandler(historyService, logger)
	healthHandler := handlers.NewHealthHandler(pool, ollamaAnalyzer)

	// Setup all routes
	routes.SetupRoutes(authHandler, analyzeHandler, historyHandler, healthHandler, identityService, logger)

	// --- HTTP Server + Graceful Shutdown ---

	// Setup CORS; the token header must be readable by browser clients
	// so freshly minted anonymous tokens survive the round trip
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{middleware.TokenHeader},
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	handler := c.Handler(http.DefaultServeMux)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
