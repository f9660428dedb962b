package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/medconsensus/internal/api/response"
)

// Pinger is implemented by the optional redis cache and postgres store.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	statusOK       = "ok"
	statusDisabled = "disabled"
	statusDown     = "down"
)

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// A nil cache or store reports "disabled"; a failing ping reports "down"
// and turns the overall status to degraded with 503.
func NewHealthHandler(provider, model string, cache, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"redis":    ping(r.Context(), cache),
			"postgres": ping(r.Context(), db),
		}

		status, code := "ok", http.StatusOK
		for _, v := range checks {
			if v == statusDown {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		response.Status(w, code, map[string]any{
			"status":   status,
			"provider": map[string]string{"name": provider, "model": model},
			"services": checks,
		})
	}
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return statusDisabled
	}
	if err := p.Ping(ctx); err != nil {
		return statusDown
	}
	return statusOK
}
