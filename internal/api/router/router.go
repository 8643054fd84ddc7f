package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alexmurray/portfolio-backend/internal/enquiries"
	httpmiddleware "github.com/alexmurray/portfolio-backend/internal/http/middleware"
	"github.com/alexmurray/portfolio-backend/internal/httpx"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger   *logging.Logger
	Boundary *httpx.Boundary

	Enquiries *enquiries.Handler

	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	CSP                *httpmiddleware.CSPDirectives

	// Static site root; empty disables static serving.
	StaticDir string

	MaxBodyBytes     int64
	SubmitRatePerMin int
	SubmitBurst      int

	// When set, GET /api/contact/stats requires a Bearer HMAC JWT.
	AdminJWTSecret string

	// StorePing reports backing-store reachability for /health.
	StorePing func(ctx context.Context) error
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	boundary := cfg.Boundary
	if boundary == nil {
		boundary = httpx.NewBoundary(logger, false)
	}

	csp := httpmiddleware.DefaultCSP()
	if cfg.CSP != nil {
		csp = *cfg.CSP
	}

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(httpmiddleware.SecurityHeaders(csp))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(logger))

	r.Get("/health", healthHandler(cfg.StorePing))

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/contact", func(api chi.Router) {
		maxBody := cfg.MaxBodyBytes
		if maxBody <= 0 {
			maxBody = 100 * 1024
		}

		submit := api.With(httpmiddleware.MaxBytes(maxBody))
		if cfg.SubmitRatePerMin > 0 {
			burst := cfg.SubmitBurst
			if burst <= 0 {
				burst = cfg.SubmitRatePerMin
			}
			submit = submit.With(httpmiddleware.RateLimit(float64(cfg.SubmitRatePerMin)/60.0, burst))
		}
		submit.Post("/", boundary.Handle(cfg.Enquiries.Submit))

		if cfg.AdminJWTSecret != "" {
			api.With(httpmiddleware.AdminJWT(cfg.AdminJWTSecret)).Get("/stats", boundary.Handle(cfg.Enquiries.GetStats))
		} else {
			api.Get("/stats", boundary.Handle(cfg.Enquiries.GetStats))
		}
	})

	// Unknown API paths get the uniform JSON shape; everything else
	// falls through to the static site.
	r.NotFound(notFoundHandler(cfg.StaticDir))

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok", "database": "disabled"}
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				body["database"] = "unreachable"
			} else {
				body["database"] = "ok"
			}
		}
		_ = httpx.WriteJSON(w, http.StatusOK, body)
	}
}
