package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/planner/internal/middleware"
	"github.com/socialchef/planner/internal/sentry"
)

// NewRouter mounts the planner API with tracing, metrics, CORS and auth
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware(s.cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	metricCfg := otelchimetric.NewBaseConfig(s.cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)
	r.Use(chimiddleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.cfg))
		r.Get("/api/preferences", s.HandleGetPreferences)
		r.Put("/api/preferences", s.HandlePutPreferences)
		r.Post("/api/meal-plans", s.HandleCreateMealPlan)
		r.Get("/api/meal-plans/status", s.HandleJobStatus)
		r.Get("/api/meal-plans/latest", s.HandleLatestMealPlan)
		r.Post("/api/recipes", s.HandleRecipeDetails)
		r.Post("/api/recipes/scale", s.HandleScaleRecipe)
	})

	return r
}
