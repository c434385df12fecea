package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/handlers"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/services"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	authHandler *handlers.AuthHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	historyHandler *handlers.HistoryHandler,
	healthHandler *handlers.HealthHandler,
	identity *services.IdentityService,
	logger *zap.Logger,
) {
	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)
	http.HandleFunc("/api/auth/validate", authHandler.ValidateToken)
	http.HandleFunc("/api/auth/profile", middleware.RequireAuth(authHandler.GetProfile, identity, logger))

	// Analysis routes: open to everyone; history is recorded for
	// registered callers only
	http.HandleFunc("/analyze/product", middleware.WithIdentity(analyzeHandler.AnalyzeProduct, identity, logger))
	http.HandleFunc("/analyze/barcode", middleware.WithIdentity(analyzeHandler.AnalyzeBarcode, identity, logger))

	// History and journey routes
	http.HandleFunc("/history", middleware.WithIdentity(historyHandler.GetHistory, identity, logger))
	http.HandleFunc("/history/comparison", middleware.WithIdentity(historyHandler.SaveComparison, identity, logger))
	http.HandleFunc("/history/journey", middleware.WithIdentity(historyHandler.GetJourney, identity, logger))

	// Swagger documentation
	http.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("EcoTrace backend is running."))
}
