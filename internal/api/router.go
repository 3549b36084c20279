package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/caixaverso/investcore/internal/api/handlers"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/logger"
)

// Handlers groups every endpoint handler the router mounts.
type Handlers struct {
	Simulation *handlers.SimulationHandler
	Investment *handlers.InvestmentHandler
	Profile    *handlers.ProfileHandler
	Product    *handlers.ProductHandler
	Client     *handlers.ClientHandler
}

// NewRouter creates and configures the HTTP router
func NewRouter(h Handlers, cfg *config.Config, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Simulations
	api.HandleFunc("/simulations", h.Simulation.Simulate).Methods("POST")
	api.HandleFunc("/simulations", h.Simulation.History).Methods("GET")
	api.HandleFunc("/simulations/summary", h.Simulation.Summary).Methods("GET")

	// Investments
	api.HandleFunc("/investments/effectivize", h.Investment.Effectivize).Methods("POST")
	api.HandleFunc("/investments/{clientID:[0-9]+}", h.Investment.History).Methods("GET")

	// Risk profiles and recommendations
	api.HandleFunc("/risk-profile/{clientID:[0-9]+}", h.Profile.Get).Methods("GET")
	api.HandleFunc("/recommendations/{profile}", h.Profile.Recommendations).Methods("GET")

	// Product catalog
	api.HandleFunc("/products", h.Product.List).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", h.Product.Get).Methods("GET")

	// Clients
	api.HandleFunc("/clients", h.Client.List).Methods("GET")
	api.HandleFunc("/clients/{id:[0-9]+}", h.Client.Get).Methods("GET")

	// Apply middleware
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if cfg.RateLimit.Enabled {
		r.Use(rateLimitMiddleware(cfg, log))
	}

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "investcore-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start),
				"request_id": RequestID(r.Context()),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error":      err,
						"path":       r.URL.Path,
						"request_id": RequestID(r.Context()),
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
