package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/kiranshivaraju/medconsensus/internal/api/middleware"
	"github.com/kiranshivaraju/medconsensus/internal/api/response"
	"github.com/kiranshivaraju/medconsensus/internal/store"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

const auditWriteTimeout = 5 * time.Second

// AuditWriter persists synthesis audit records.
type AuditWriter interface {
	RecordAudit(ctx context.Context, audit *models.SynthesisAudit) error
}

// AuditRecorder writes one audit record per synthesis call in the
// background. A nil *AuditRecorder records nothing.
type AuditRecorder struct {
	writer   AuditWriter
	provider string
	model    string

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditRecorder creates an AuditRecorder tagging records with the given
// provider and model.
func NewAuditRecorder(w AuditWriter, provider, model string) *AuditRecorder {
	return &AuditRecorder{writer: w, provider: provider, model: model}
}

// Record queues an audit record. Write failures are logged and dropped, as
// are records arriving after Close.
func (a *AuditRecorder) Record(r *http.Request, operation string, start time.Time, outcome string, err error) {
	if a == nil || a.writer == nil {
		return
	}

	rec := &models.SynthesisAudit{
		ID:         uuid.New(),
		RequestID:  mw.GetRequestID(r.Context()),
		Operation:  operation,
		Provider:   a.provider,
		Model:      a.model,
		Outcome:    outcome,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		msg := err.Error()
		rec.ErrorMessage = &msg
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		slog.Debug("audit recorder closed, record dropped",
			"operation", operation,
			"request_id", rec.RequestID,
		)
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if werr := a.writer.RecordAudit(ctx, rec); werr != nil {
			slog.Warn("audit write failed",
				"error", werr,
				"operation", operation,
				"request_id", rec.RequestID,
			)
		}
	}()
}

// Wait blocks until queued records have been written.
func (a *AuditRecorder) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}

// Close stops accepting records and waits for queued ones to be written.
// Handlers still running after a shutdown timeout may call Record safely.
func (a *AuditRecorder) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.wg.Wait()
}

// AuditReader reads back the audit log.
type AuditReader interface {
	ListAudits(ctx context.Context, filter store.AuditFilter) ([]*models.SynthesisAudit, error)
	GetAudit(ctx context.Context, id uuid.UUID) (*models.SynthesisAudit, error)
}

var (
	validOperations = map[string]bool{
		models.OperationOpinion:   true,
		models.OperationVerdict:   true,
		models.OperationQuestions: true,
	}
	validOutcomes = map[string]bool{
		models.OutcomeOK:           true,
		models.OutcomeFallback:     true,
		models.OutcomeShortCircuit: true,
	}
)

// NewListAuditsHandler returns an http.HandlerFunc for GET /api/v1/audits.
func NewListAuditsHandler(s AuditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.AuditFilter{
			Operation: q.Get("operation"),
			Outcome:   q.Get("outcome"),
		}

		if filter.Operation != "" && !validOperations[filter.Operation] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"operation must be one of opinion, verdict, questions", nil)
			return
		}
		if filter.Outcome != "" && !validOutcomes[filter.Outcome] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"outcome must be one of ok, fallback, short_circuit", nil)
			return
		}
		if v := q.Get("since"); v != "" {
			since, err := time.Parse(time.RFC3339, v)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = since
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be a positive integer", nil)
				return
			}
			filter.Limit = n
		}

		audits, err := s.ListAudits(r.Context(), filter)
		if err != nil {
			slog.Error("list audits", "error", err, "request_id", mw.GetRequestID(r.Context()))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if audits == nil {
			audits = []*models.SynthesisAudit{}
		}

		response.JSON(w, map[string]any{
			"audits": audits,
			"count":  len(audits),
		})
	}
}

// NewGetAuditHandler returns an http.HandlerFunc for GET /api/v1/audits/{auditID}.
func NewGetAuditHandler(s AuditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "auditID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "auditID must be a UUID", nil)
			return
		}

		audit, err := s.GetAudit(r.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Audit record not found", nil)
			return
		case err != nil:
			slog.Error("get audit", "error", err, "request_id", mw.GetRequestID(r.Context()))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, audit)
	}
}
