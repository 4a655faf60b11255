package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/api/handler"
	"github.com/ayo6706/circulation-scheduler/internal/api/middleware"
	"github.com/ayo6706/circulation-scheduler/internal/api/spec"
	"github.com/ayo6706/circulation-scheduler/internal/service"
)

// Services bundles the service layer the HTTP API exposes.
type Services struct {
	Accounts    *service.AccountService
	Groups      *service.GroupService
	Simulations *service.SimulationService
	Transfers   *service.TransferService
	Audit       *service.AuditService
	History     *service.HistoryService
}

// RouterConfig carries the router's collaborators and limits.
type RouterConfig struct {
	Services    Services
	Health      *handler.HealthHandler
	Idempotency middleware.IdempotencyStore
	Logger      *zap.Logger
	PublicRPS   int
	// RunsPerMinute caps schedule generation; zero disables the cap.
	RunsPerMinute int
}

type Router struct {
	cfg RouterConfig
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	return &Router{cfg: cfg}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.cfg.Logger))
	r.Use(middleware.RecoverMiddleware(api.cfg.Logger))
	r.Use(middleware.MetricsMiddleware)
	if api.cfg.PublicRPS > 0 {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRPS))
	}

	svc := api.cfg.Services
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	groupHandler := handler.NewGroupHandler(svc.Groups)
	simulationHandler := handler.NewSimulationHandler(svc.Simulations)
	transferHandler := handler.NewTransferHandler(svc.Transfers)
	auditHandler := handler.NewAuditHandler(svc.Audit)
	historyHandler := handler.NewHistoryHandler(svc.History)

	r.Get("/health/live", api.cfg.Health.Live)
	r.Get("/health/ready", api.cfg.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accountHandler.List)
			r.Post("/", accountHandler.Create)
			r.Get("/{id}", accountHandler.Get)
			r.Patch("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", groupHandler.List)
			r.Post("/", groupHandler.Create)
			r.Patch("/{id}", groupHandler.Update)
			r.Delete("/{id}", groupHandler.Delete)
		})

		r.Get("/config", simulationHandler.GetConfig)
		r.Put("/config", simulationHandler.PutConfig)

		r.Route("/simulations", func(r chi.Router) {
			if api.cfg.RunsPerMinute > 0 {
				r.Use(limitPosts(middleware.RunRateLimiter(api.cfg.RunsPerMinute)))
			}
			r.With(middleware.IdempotencyMiddleware(api.cfg.Idempotency, api.cfg.Logger)).Post("/", simulationHandler.Run)
			r.With(middleware.IdempotencyMiddleware(api.cfg.Idempotency, api.cfg.Logger)).Post("/reset", simulationHandler.Reset)
			r.Get("/execution", simulationHandler.Execution)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", transferHandler.List)
			r.Get("/export.csv", transferHandler.Export)
			r.Get("/daily", transferHandler.Daily)
			r.Get("/months", transferHandler.Months)
			r.Patch("/{id}", transferHandler.UpdateDate)
		})

		r.Get("/audit", auditHandler.Audit)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.List)
			r.Delete("/", historyHandler.Clear)
			r.Get("/archive", historyHandler.Archive)
		})
	})

	return r
}

// limitPosts applies limiter to POST requests only.
func limitPosts(limiter func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
