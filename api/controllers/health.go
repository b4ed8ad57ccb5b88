package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/farmansunasara/sparehub-b2b-platform/api/responses"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/redis"
)

const envHeader = "X-SpareHub-Env"

const readyCheckTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datastore and cache before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
