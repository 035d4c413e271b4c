package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/redis"
	"github.com/lorenagil/storefront-backend/pkg/storage/gcs"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing store before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []struct {
			name string
			ping func(context.Context) error
		}{
			{"db", dbP.Ping},
			{"redis", redisP.Ping},
			{"gcs", gcsP.Ping},
		}

		status := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(
					pkgerrors.CodeDependency, err, check.name+" not ready",
				))
				return
			}
			status[check.name] = "ok"
		}

		responses.WriteSuccess(w, status)
	}
}
