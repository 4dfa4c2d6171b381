// Package server provides the HTTP server and routing for the Northwest Creek web front-end.
package server

import (
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/config"
	"github.com/aristath/nwcreek/internal/database"
	"github.com/aristath/nwcreek/internal/modules/content"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/aristath/nwcreek/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	DB        *database.DB
	Storage   *storage.Repository
	API       *northwest.Client
	Config    *config.Config
	Directory []pages.Suggestion // ticker directory for search suggestions
	Version   string
}

// Server represents the HTTP server
type Server struct {
	router      *chi.Mux
	server      *http.Server
	log         zerolog.Logger
	db          *database.DB
	storage     *storage.Repository
	api         *northwest.Client
	cfg         *config.Config
	views       *views
	pricing     string
	pricingHTML template.HTML
	directory   []pages.Suggestion
	version     string
	started     time.Time
}

// New creates a new HTTP server
func New(cfg Config) (*Server, error) {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	views, err := loadViews()
	if err != nil {
		return nil, err
	}

	markdown := embedded.PricingMarkdown()
	pricingHTML, err := content.HTML(markdown)
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		db:          cfg.DB,
		storage:     cfg.Storage,
		api:         cfg.API,
		cfg:         cfg.Config,
		views:       views,
		pricing:     markdown,
		pricingHTML: pricingHTML,
		directory:   cfg.Directory,
		version:     version,
		started:     time.Now(),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS, for the JSON endpoints
	origins := []string{"http://localhost:*", "http://127.0.0.1:*"}
	if devMode {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Browser "local storage" scope
	s.router.Use(s.sessionMiddleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Long-lived stream; no timeout or compression
	s.router.Get("/live/stream", s.handleLiveStream)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.Compress(5))

		r.Get("/health", s.handleHealth)

		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(embedded.Static()))))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, pages.PathWatchlist, http.StatusSeeOther)
		})

		// Account
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegister)
		r.Get("/verify-email", s.handleVerifyEmail)
		r.Post("/resend-verification", s.handleResendVerification)
		r.Post("/theme", s.handleTheme)

		// Lists
		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.handleWatchlist)
			r.Post("/", s.handleWatchlistCreate)
			r.Post("/{ticker}/notes", s.handleWatchlistNotes)
			r.Post("/{ticker}/delete", s.handleWatchlistDelete)
		})
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.handlePortfolio)
			r.Post("/", s.handlePortfolioCreate)
			r.Post("/{id}", s.handlePortfolioUpdate)
			r.Post("/{id}/delete", s.handlePortfolioDelete)
		})
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.handleAlerts)
			r.Post("/", s.handleAlertsCreate)
			r.Post("/{id}/toggle", s.handleAlertsToggle)
			r.Post("/{id}/delete", s.handleAlertsDelete)
		})

		// Research
		r.Get("/stocks", s.handleStocks)
		r.Get("/stocks/suggest", s.handleSuggest)
		r.Get("/technical-analysis", s.handleTechnical)
		r.Get("/dcf", s.handleDCF)

		// Plans
		r.Get("/pricing", s.handlePricing)
		r.Post("/pricing/checkout", s.handleCheckout)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Str("api", s.api.BaseURL()).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
