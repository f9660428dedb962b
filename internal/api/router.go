package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/kiranshivaraju/medconsensus/internal/api/middleware"
	"github.com/kiranshivaraju/medconsensus/internal/api/response"
	"github.com/kiranshivaraju/medconsensus/internal/metrics"
)

// Dependencies holds all handler and middleware dependencies for the router.
// RateLimit and Metrics are optional.
type Dependencies struct {
	RateLimit *mw.RateLimit
	Metrics   *metrics.Metrics

	HealthHandler            http.HandlerFunc
	MedicalResponseHandler   http.HandlerFunc
	VerdictHandler           http.HandlerFunc
	FollowUpQuestionsHandler http.HandlerFunc
	ListAuditsHandler        http.HandlerFunc
	GetAuditHandler          http.HandlerFunc
	MetricsHandler           http.Handler
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if deps.Metrics != nil {
		r.Use(mw.Instrument(deps.Metrics))
	}

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/medical-response", orNotImplemented(deps.MedicalResponseHandler))
		r.Post("/api/v1/consultation-verdict", orNotImplemented(deps.VerdictHandler))
		r.Post("/api/v1/follow-up-questions", orNotImplemented(deps.FollowUpQuestionsHandler))

		r.Get("/api/v1/audits", orNotImplemented(deps.ListAuditsHandler))
		r.Get("/api/v1/audits/{auditID}", orNotImplemented(deps.GetAuditHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not available", nil)
	}
}
