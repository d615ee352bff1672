package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the environment-dependent router settings.
type RouterConfig struct {
	AppName        string
	Version        string
	Environment    string
	AllowedOrigins []string
	LogLevel       slog.Level
	RateLimiter    *middleware.ClientRateLimiter
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, reportHandler ReportHandler, costRateHandler CostRateHandler, eventHandler EventHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Environment != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Environment),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			// EventSource cannot set headers, so the stream also accepts ?jwt=
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			if cfg.RateLimiter != nil {
				r.Use(middleware.RateLimit(cfg.RateLimiter))
			}

			r.Route("/metrics", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/", reportHandler.GetMetrics)
					r.Get("/leave-adjacency", reportHandler.GetLeaveAdjacency)
					r.Get("/overview", reportHandler.GetOverview)
					r.Get("/filters", reportHandler.GetFilterOptions)
					r.Get("/events", eventHandler.Stream)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsRefresh)).
					Post("/refresh", reportHandler.Refresh)
			})

			r.Route("/settings/cost-rates", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSettingsView)).
					Get("/", costRateHandler.GetRates)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
					r.Put("/default", costRateHandler.SetDefaultRate)
					r.Put("/functions", costRateHandler.SetFunctionRates)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
