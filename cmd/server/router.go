package main

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "prontuario/internal/auth/handler"
	authservice "prontuario/internal/auth/service"
	authstore "prontuario/internal/auth/store"
	sessionstore "prontuario/internal/auth/store/session"
	userstore "prontuario/internal/auth/store/user"
	"prontuario/internal/jwttoken"
	"prontuario/internal/platform/config"
	"prontuario/internal/platform/metrics"
	"prontuario/internal/platform/middleware"
	"prontuario/internal/platform/redis"
	patienthandler "prontuario/internal/patient/handler"
	patientmetrics "prontuario/internal/patient/metrics"
	"prontuario/internal/patient/registry"
	patientstore "prontuario/internal/patient/store"
)

const requestTimeout = 30 * time.Second

// newRouter assembles the stores, services, and handlers onto one chi router.
// A nil pool or redis client selects the in-memory implementations.
func newRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, redisClient *redis.Client) chi.Router {
	platformMetrics := metrics.New()

	var users authstore.UserStore
	var patients patientstore.Store
	if pool != nil {
		users = userstore.NewPostgres(pool)
		patients = patientstore.NewPostgres(pool)
	} else {
		users = userstore.NewInMemory()
		patients = patientstore.NewInMemory()
	}

	var sessions authstore.SessionStore
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient.Client)
	} else {
		sessions = sessionstore.NewInMemory()
	}

	tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	auth := authservice.New(users, sessions, tokens, log, platformMetrics,
		cfg.Auth.AccessTokenTTL, cfg.Auth.SessionTTL)
	authHandler := authhandler.New(auth, log)

	manager := registry.NewManager(patients, log, patientmetrics.New())
	patientHandler := patienthandler.New(manager, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(platformMetrics))

	r.Get("/healthz", newHealthHandler(pool, redisClient))
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		public.Use(middleware.Timeout(requestTimeout))
		public.Use(middleware.ContentTypeJSON)
		authHandler.Register(public)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Timeout(requestTimeout))
		protected.Use(middleware.ContentTypeJSON)
		protected.Use(middleware.RequireAuth(jwttoken.NewAdapter(tokens), auth, log))
		authHandler.RegisterProtected(protected)
		patientHandler.Register(protected)
	})

	return r
}
