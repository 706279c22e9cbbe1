package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bibbank/microlend/pkg/auth"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Service   string
	Scoring   *ScoringHandler
	Validator auth.TokenValidator
	DB        Pinger
	Metrics   http.Handler
	Logger    *slog.Logger
}

// NewRouter builds the HTTP router. Probes and /metrics are public; the API
// under /api/v1 requires a bearer token.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(accessLog(cfg.Logger))

	NewHealthHandler(cfg.Service, cfg.DB, cfg.Logger).RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.HTTPMiddleware(cfg.Validator))
	cfg.Scoring.RegisterRoutes(api)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.DebugContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
