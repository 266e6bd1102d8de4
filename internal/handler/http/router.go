package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	// RateLimit wraps the API routes when set.
	RateLimit func(http.Handler) http.Handler
}

type Handlers struct {
	Payroll     PayrollHandler
	Attendance  AttendanceHandler
	Offboarding OffboardingHandler
	Settings    SettingsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-rules-engine"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/calculate", h.Payroll.Calculate)
				r.Post("/variance", h.Payroll.AnalyzeVariance)

				r.Route("/runs", func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Payroll.ListRuns)
					r.Post("/", h.Payroll.GenerateRun)
					r.Get("/{id}", h.Payroll.GetRun)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Post("/break/start", h.Attendance.StartBreak)
				r.Post("/break/end", h.Attendance.EndBreak)
				r.Post("/evaluate", h.Attendance.Evaluate)

				// Manager only
				r.With(middleware.RequireManager).Get("/summary", h.Attendance.Summary)
			})

			r.Route("/offboarding/settlements", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/preview", h.Offboarding.Preview)
				r.Post("/", h.Offboarding.Settle)
				r.Get("/{employeeID}", h.Offboarding.GetSettlement)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/payroll", h.Settings.GetPayrollConfig)
				r.Get("/attendance-rules", h.Settings.GetRulesConfig)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/payroll", h.Settings.UpdatePayrollConfig)
					r.Put("/attendance-rules", h.Settings.UpdateRulesConfig)
				})
			})
		})
	})
	return r
}
