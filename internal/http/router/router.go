package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/straye-as/pipeline-api/internal/auth"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/http/handler"
	"github.com/straye-as/pipeline-api/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	healthHandler  *handler.HealthHandler
	dealHandler    *handler.DealHandler
	leadHandler    *handler.LeadHandler
	quoteHandler   *handler.QuoteHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	dealHandler *handler.DealHandler,
	leadHandler *handler.LeadHandler,
	quoteHandler *handler.QuoteHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		healthHandler:  healthHandler,
		dealHandler:    dealHandler,
		leadHandler:    leadHandler,
		quoteHandler:   quoteHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	r.Get("/health", rt.healthHandler.Live)
	r.Get("/health/ready", rt.healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeoutDuration()))
		r.Use(rt.authMiddleware.RequireActor)

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", rt.dealHandler.List)
			r.Get("/{id}", rt.dealHandler.GetByID)
			r.Put("/{id}/stage", rt.dealHandler.UpdateStage)
			r.Get("/{id}/history", rt.dealHandler.GetStageHistory)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/{id}", rt.leadHandler.GetByID)
			r.Post("/{id}/convert", rt.leadHandler.Convert)
		})

		r.Post("/quotes/price", rt.quoteHandler.Price)
	})

	return r
}
