package api

import (
	"context"
	"net/http"
	"time"

	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthCheckHandler handles GET /healthCheck. redisClient may be nil.
func HealthCheckHandler(db *sqlx.DB, redisClient redis.UniversalClient, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		pgstatus := "ok"
		pgDetails := "Postgres Connected"
		if err := db.PingContext(ctx); err != nil {
			pgstatus = "down"
			pgDetails = err.Error()
		}
		services["postgres"] = entities.ServiceStatus{
			Status:  pgstatus,
			Details: pgDetails,
		}

		if redisClient != nil {
			status := entities.ServiceStatus{Status: "ok", Details: "Redis Connected"}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = status
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, initTime, "health check", resp, code)
	}
}
