package rest

import (
	"net/http"

	"clubmanager/application/ports"
	"clubmanager/interfaces/http/rest/handlers"
	"clubmanager/interfaces/http/rest/middleware"
	"clubmanager/pkg/auth"
	apperrors "clubmanager/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options tunes the router per deployment
type Options struct {
	// AllowedOrigins for CORS
	AllowedOrigins []string
	// RequestsPerMinute per caller and per client IP; 0 disables limiting
	RequestsPerMinute int
	// MetricsHandler is mounted on /metrics when set
	MetricsHandler http.Handler
}

// Router creates and configures the HTTP router
type Router struct {
	service      handlers.ClubService
	identity     middleware.IdentitySource
	errorHandler *apperrors.ErrorHandler
	metrics      ports.MetricsRecorder
	logger       *zap.Logger
	opts         Options
}

// NewRouter creates a new router instance
func NewRouter(
	service handlers.ClubService,
	identity middleware.IdentitySource,
	errorHandler *apperrors.ErrorHandler,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		service:      service,
		identity:     identity,
		errorHandler: errorHandler,
		metrics:      metrics,
		logger:       logger,
		opts:         opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.RequestMetrics(rt.metrics))

	origins := rt.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.opts.MetricsHandler != nil {
		router.Handle("/metrics", rt.opts.MetricsHandler)
	}

	var limiter *auth.KeyedLimiter
	if rt.opts.RequestsPerMinute > 0 {
		limiter = auth.NewKeyedLimiter(rt.opts.RequestsPerMinute)
	}

	clubHandler := handlers.NewClubHandler(rt.service, rt.errorHandler, rt.logger)
	meHandler := handlers.NewMeHandler(rt.service, rt.errorHandler, rt.logger)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.identity, limiter, rt.errorHandler, rt.logger))

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", clubHandler.ListPublicClubs)
			r.Post("/", clubHandler.CreateClub)
			r.Delete("/{clubId}", clubHandler.DeleteClub)
			r.Post("/{clubId}/join", clubHandler.JoinClub)
			r.Get("/{clubId}/members/{userId}", clubHandler.GetMember)
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", meHandler.GetProfile)
			r.Get("/clubs", meHandler.ListManagedClubs)
			r.Get("/memberships", meHandler.ListMemberships)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
