package http

import (
	"database/sql"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aeroprep/aeroprep-backend/internal/attempt"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/category"
	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/modq"
	"github.com/aeroprep/aeroprep-backend/internal/quiz"
	"github.com/aeroprep/aeroprep-backend/internal/ratelimit"
	"github.com/aeroprep/aeroprep-backend/internal/rbac"
)

type Deps struct {
	Cfg        config.Config
	Log        *zap.SugaredLogger
	Quiz       *quiz.Service
	Recorder   *attempt.Recorder
	Attempts   attempt.Store
	Flags      *modq.Queue
	Categories category.Store
	Auth       *auth.Service
	DB         *sql.DB // nil disables local login
	Limiter    ratelimit.CounterStore
}

func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(RequestLogger(d.Log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", HealthHandler())

	if d.DB != nil {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.DB))
	}

	// Public browsing + sampling: guests allowed, pro gating inside.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Optional(d.Auth))
		pr.Get("/categories", ListCategoriesHandler(d.Categories))
		pr.With(ratelimit.Guard(d.Limiter, d.Cfg.RateLimitMax, d.Cfg.RateLimitWindow, d.Log)).
			Get("/quiz", QuizHandler(d.Quiz, d.Cfg))
		pr.Post("/attempts", SubmitAttemptHandler(d.Recorder))
		pr.Post("/flags", SubmitFlagHandler(d.Flags))
	})

	// Authenticated surface.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Required(d.Auth))

		pr.With(rbac.Require("attempt:view-own")).
			Get("/attempts", ListAttemptsHandler(d.Attempts))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", GetAttemptHandler(d.Attempts))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/verify", VerifyAttemptHandler(d.Recorder, d.Attempts))

		pr.With(rbac.Require("flag:resolve")).
			Post("/flags/{flagID}/resolve", ResolveFlagHandler(d.Flags))
		pr.With(rbac.Require("flag:list")).
			Get("/flags", ListFlagsHandler(d.Flags))
	})

	return r
}
