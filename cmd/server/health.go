package main

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"prontuario/internal/platform/redis"
	"prontuario/pkg/platform/httputil"
)

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// newHealthHandler reports liveness plus the state of the backing stores.
// In-memory fallbacks report as such rather than failing the check.
func newHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Postgres: "in-memory", Redis: "in-memory"}
		status := http.StatusOK

		if pool != nil {
			resp.Postgres = "ok"
			if err := pool.Ping(r.Context()); err != nil {
				resp.Postgres = "unreachable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			resp.Redis = "ok"
			if err := redisClient.Health(r.Context()); err != nil {
				resp.Redis = "unreachable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
