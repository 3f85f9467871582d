package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	api "github.com/aeroprep/aeroprep-backend/internal/api/http"
	"github.com/aeroprep/aeroprep-backend/internal/attempt"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/category"
	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/db"
	"github.com/aeroprep/aeroprep-backend/internal/logging"
	"github.com/aeroprep/aeroprep-backend/internal/modq"
	"github.com/aeroprep/aeroprep-backend/internal/question"
	"github.com/aeroprep/aeroprep-backend/internal/quiz"
	"github.com/aeroprep/aeroprep-backend/internal/ratelimit"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatalw("db open failed", "error", err)
	}

	catStore := category.NewSQLStore(dbh)
	qStore := question.NewSQLStore(dbh)
	attStore := attempt.NewSQLStore(dbh)

	var limiter ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisStore(cfg.RedisAddr)
		logger.Infow("rate limit counter on redis", "addr", cfg.RedisAddr)
	}

	r := api.NewRouter(api.Deps{
		Cfg:        cfg,
		Log:        logger,
		Quiz:       quiz.NewService(catStore, qStore, cfg.PoolCap, logger),
		Recorder:   attempt.NewRecorder(attStore, logger),
		Attempts:   attStore,
		Flags:      modq.NewQueue(modq.NewSQLStore(dbh), cfg.FlagPageSize),
		Categories: catStore,
		Auth:       auth.NewService(cfg.AuthHMACSecret),
		DB:         dbh,
		Limiter:    limiter,
	})

	logger.Infow("gateway listening", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}
