package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bloom/internal/api"
	apiMiddleware "github.com/phrazzld/bloom/internal/api/middleware"
	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/platform/metrics"
	"github.com/phrazzld/bloom/internal/service"
	"github.com/phrazzld/bloom/internal/service/auth"
)

type chiRouter = chi.Mux

// routerDeps are the collaborators the HTTP routes depend on.
type routerDeps struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	jwt      auth.JWTService
	users    service.UserService
	catalog  service.CatalogService
	progress service.ProgressService
}

// newRouter creates the router with all routes and middleware.
func newRouter(deps routerDeps) *chiRouter {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(deps.logger))
	r.Use(apiMiddleware.MetricsMiddleware(deps.metrics))

	authHandler := api.NewAuthHandler(deps.users, deps.logger)
	catalogHandler := api.NewCatalogHandler(deps.catalog, deps.logger)
	progressHandler := api.NewProgressHandler(deps.progress, deps.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.jwt)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/social", authHandler.SocialLogin)

		r.Get("/courses/categories", catalogHandler.Categories)
		r.Get("/courses", catalogHandler.Courses)
		r.Get("/courses/recommended", catalogHandler.RecommendedCourses)
		r.Get("/courses/{id}", catalogHandler.Course)
		r.Get("/courses/lessons/{id}", catalogHandler.Lesson)
		r.Get("/courses/levels/{id}/lessons", catalogHandler.LevelLessons)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/profile", authHandler.Profile)

			r.Get("/progress/stats", progressHandler.Stats)
			r.Get("/progress/course/{id}", progressHandler.CourseProgress)
			r.Get("/progress/lesson/{id}", progressHandler.LessonProgress)
			r.Post("/progress/update", progressHandler.UpdateProgress)
			r.Post("/progress/energy/consume", progressHandler.ConsumeEnergy)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithData(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
	})
	if deps.metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())
	}

	return r
}
