package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string // dev|prod
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthHMACSecret string

	CORSOrigins []string

	// Quiz sampling
	PoolCap      int // max candidates fetched before shuffling
	DefaultLimit int // questions per quiz when ?limit is absent
	MaxLimit     int

	// Flag moderation
	FlagPageSize int

	// Access guard on the sampling endpoint
	RateLimitWindow time.Duration
	RateLimitMax    int64
	RedisAddr       string // empty: in-process counter store
}

func FromEnv() Config {
	return Config{
		Env:      envOr("APP_ENV", "dev"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "aeroprep-dev-secret"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		PoolCap:      envInt("QUIZ_POOL_CAP", 400),
		DefaultLimit: envInt("QUIZ_DEFAULT_LIMIT", 20),
		MaxLimit:     envInt("QUIZ_MAX_LIMIT", 100),

		FlagPageSize: envInt("FLAG_PAGE_SIZE", 50),

		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    int64(envInt("RATE_LIMIT_MAX", 60)),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
