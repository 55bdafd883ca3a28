package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/minsuk-dev/hermes/internal/api/handlers"
	"github.com/minsuk-dev/hermes/pkg/database"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	pipelineHandler *handlers.PipelineHandler,
	tradesHandler *handlers.TradesHandler,
	db *database.DB,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
	})

	// Health check
	r.HandleFunc("/health", healthCheckHandler(db)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Pipeline endpoints
	api.HandleFunc("/pipeline/run", pipelineHandler.Run).Methods("POST")
	api.HandleFunc("/runs/latest", pipelineHandler.GetLatestRun).Methods("GET")

	// Trade history endpoints
	api.HandleFunc("/trades", tradesHandler.GetTrades).Methods("GET")
	api.HandleFunc("/trades/summary", tradesHandler.GetSummary).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status. When a database is
// configured its connectivity decides the status code.
func healthCheckHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		body := map[string]interface{}{
			"status":  "ok",
			"service": "hermes-api",
		}

		if db == nil {
			body["database"] = "not configured"
			json.NewEncoder(w).Encode(body)
			return
		}

		status, err := db.HealthCheck(r.Context())
		body["database"] = status
		if err != nil {
			body["status"] = "degraded"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(body)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
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
						"error": err,
						"path":  r.URL.Path,
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
