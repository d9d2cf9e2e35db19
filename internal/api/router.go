package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jobboard/jobboard-api/docs"
	"github.com/jobboard/jobboard-api/internal/api/handler"
	"github.com/jobboard/jobboard-api/internal/api/middleware"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/infrastructure/http/handlers"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth         ports.AuthService
	Jobs         ports.JobService
	Applications ports.ApplicationService
	Profiles     ports.ProfileService
	Catalog      ports.CatalogService
	Search       ports.SearchService
}

// Options configures the router. Registry and Gatherer default to the
// process-wide Prometheus registry.
type Options struct {
	JWTSecret  string
	Log        zerolog.Logger
	Readiness  map[string]handlers.Pinger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options, svc Services) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "jobboard",
		Subsystem:  "http",
		Registerer: opts.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Readiness)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	jobHandler := handler.NewJobHandler(svc.Jobs)
	appHandler := handler.NewApplicationHandler(svc.Applications)
	companyHandler := handler.NewCompanyHandler(svc.Profiles, svc.Search)
	seekerHandler := handler.NewJobSeekerHandler(svc.Profiles, svc.Search)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	searchHandler := handler.NewSearchHandler(svc.Search)

	auth := middleware.Auth(opts.JWTSecret)
	optionalAuth := middleware.OptionalAuth(opts.JWTSecret)
	employers := middleware.RBAC(domain.RoleCompany, domain.RoleAdmin)
	applicants := middleware.RBAC(domain.RoleJobSeeker)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/profile", authHandler.Profile, auth)

	// --- Job routes ---
	jobs := v1.Group("/jobs")
	jobs.GET("", jobHandler.List, optionalAuth)
	jobs.GET("/:id", jobHandler.Get, optionalAuth)
	jobs.POST("", jobHandler.Create, auth, employers)
	jobs.PATCH("/:id", jobHandler.Update, auth, employers)
	jobs.PUT("/:id", jobHandler.Update, auth, employers)
	jobs.DELETE("/:id", jobHandler.Delete, auth, employers)
	jobs.POST("/:id/activate", jobHandler.Activate, auth, employers)
	jobs.POST("/:id/pause", jobHandler.Pause, auth, employers)
	jobs.POST("/:id/close", jobHandler.Close, auth, employers)
	jobs.GET("/:id/can_apply", jobHandler.CanApply, auth)
	jobs.GET("/:id/applications", appHandler.ListForJob, auth)
	jobs.POST("/:id/applications", appHandler.Apply, auth, applicants)

	// --- Application routes ---
	apps := v1.Group("/job_applications", auth)
	apps.GET("", appHandler.List)
	apps.GET("/:id", appHandler.Get)
	apps.PATCH("/:id", appHandler.Update)
	apps.PUT("/:id", appHandler.Update)
	apps.DELETE("/:id", appHandler.Delete)
	apps.PATCH("/:id/update_status", appHandler.UpdateStatus)
	apps.POST("/:id/withdraw", appHandler.Withdraw)
	apps.GET("/:id/history", appHandler.History)

	// --- Company routes ---
	companies := v1.Group("/companies", auth)
	companies.GET("", companyHandler.List)
	companies.GET("/:id", companyHandler.Get)
	companies.PATCH("/:id", companyHandler.Update)
	companies.PUT("/:id", companyHandler.Update)
	companies.GET("/:id/jobs", jobHandler.ListForCompany)
	companies.GET("/:id/applications", appHandler.ListForCompany)

	// --- Job seeker routes ---
	seekers := v1.Group("/job_seekers", auth)
	seekers.GET("", seekerHandler.List)
	seekers.GET("/:id", seekerHandler.Get)
	seekers.PATCH("/:id", seekerHandler.Update)
	seekers.PUT("/:id", seekerHandler.Update)
	seekers.GET("/:id/applications", appHandler.ListForJobSeeker)
	seekers.GET("/:id/skills", seekerHandler.Skills)
	seekers.POST("/:id/skills", seekerHandler.AddSkill)
	seekers.DELETE("/:id/skills/:skill_id", seekerHandler.RemoveSkill)

	// --- Catalog routes ---
	v1.GET("/categories", catalogHandler.ListCategories)
	v1.GET("/categories/:id", catalogHandler.GetCategory)
	v1.GET("/categories/:id/skills", catalogHandler.ListSkills)
	v1.GET("/categories/:id/skills/:skill_id", catalogHandler.GetSkill)

	// --- Search routes ---
	v1.GET("/search/jobs", searchHandler.Jobs, optionalAuth)
	v1.GET("/search/companies", searchHandler.Companies, auth)
	v1.GET("/search/job_seekers", searchHandler.JobSeekers, auth)

	return e
}

// requestLogger logs one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
