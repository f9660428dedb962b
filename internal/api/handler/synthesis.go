package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kiranshivaraju/medconsensus/internal/ai"
	"github.com/kiranshivaraju/medconsensus/internal/api/response"
	"github.com/kiranshivaraju/medconsensus/internal/fallback"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

const maxBodyBytes = 1 << 20

// Synthesizer defines the interface the synthesis handlers depend on.
type Synthesizer interface {
	GenerateOpinion(ctx context.Context, req ai.OpinionRequest) (models.MedicalResponseResult, error)
	GenerateVerdict(ctx context.Context, req ai.VerdictRequest) (models.ConsensusVerdict, error)
	GenerateFollowUpQuestions(ctx context.Context, condition, specialty string) ([]string, error)
}

type medicalResponseRequest struct {
	Symptoms        string `json:"symptoms"`
	Prompt          string `json:"prompt"`
	Specialty       string `json:"specialty"`
	AgentID         string `json:"agentId"`
	AgentName       string `json:"agentName"`
	IsCollaborative bool   `json:"isCollaborative"`
}

type medicalResponseBody struct {
	models.MedicalResponseResult
	Error string `json:"error,omitempty"`
}

type requestErrorBody struct {
	Error    string `json:"error"`
	Response string `json:"response"`
}

// NewMedicalResponseHandler returns an http.HandlerFunc for
// POST /api/v1/medical-response. Provider failures still answer 200 with the
// fallback opinion and an error string.
func NewMedicalResponseHandler(svc Synthesizer, audit *AuditRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicalResponseRequest
		if err := decodeBody(w, r, &req); err != nil {
			response.Raw(w, http.StatusBadRequest, requestErrorBody{
				Error:    "invalid JSON body",
				Response: fallback.UnavailableResponse,
			})
			return
		}

		symptoms := strings.TrimSpace(req.Symptoms)
		promptText := strings.TrimSpace(req.Prompt)
		if (symptoms == "") == (promptText == "") {
			response.Raw(w, http.StatusBadRequest, requestErrorBody{
				Error:    "exactly one of symptoms or prompt is required",
				Response: fallback.UnavailableResponse,
			})
			return
		}
		if symptoms == "" {
			symptoms = promptText
		}

		start := time.Now()
		result, err := svc.GenerateOpinion(r.Context(), ai.OpinionRequest{
			Specialty:      req.Specialty,
			Symptoms:       symptoms,
			SpecialistID:   req.AgentID,
			SpecialistName: req.AgentName,
			Collaborative:  req.IsCollaborative,
		})
		audit.Record(r, models.OperationOpinion, start, outcomeFor(err), err)

		response.Raw(w, http.StatusOK, medicalResponseBody{
			MedicalResponseResult: result,
			Error:                 clientMessage(err),
		})
	}
}

type verdictRequest struct {
	Diagnoses []models.SpecialistOpinion `json:"diagnoses"`
	Messages  []models.ConversationTurn  `json:"messages"`
	Symptoms  string                     `json:"symptoms"`
}

type verdictBody struct {
	models.ConsensusVerdict
	Error string `json:"error,omitempty"`
}

// NewConsultationVerdictHandler returns an http.HandlerFunc for
// POST /api/v1/consultation-verdict. When the completion call failed the
// status is 502 but the body is still a fully populated verdict.
func NewConsultationVerdictHandler(svc Synthesizer, audit *AuditRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verdictRequest
		if err := decodeBody(w, r, &req); err != nil {
			v := fallback.DefaultVerdict()
			v.GeneratedAt = time.Now().UTC()
			response.Raw(w, http.StatusBadRequest, verdictBody{
				ConsensusVerdict: v,
				Error:            "invalid JSON body",
			})
			return
		}

		start := time.Now()
		verdict, err := svc.GenerateVerdict(r.Context(), ai.VerdictRequest{
			Symptoms: req.Symptoms,
			Opinions: req.Diagnoses,
			Turns:    req.Messages,
		})
		audit.Record(r, models.OperationVerdict, start, outcomeFor(err), err)

		status := http.StatusOK
		if err != nil {
			status = http.StatusBadGateway
		}
		response.Raw(w, status, verdictBody{
			ConsensusVerdict: verdict,
			Error:            clientMessage(err),
		})
	}
}

type questionsRequest struct {
	Condition string `json:"condition"`
	Specialty string `json:"specialty"`
}

type questionsBody struct {
	Questions []string `json:"questions"`
	Error     string   `json:"error,omitempty"`
}

// NewFollowUpQuestionsHandler returns an http.HandlerFunc for
// POST /api/v1/follow-up-questions. It always answers 200 with a populated
// question list so callers never cascade a failure.
func NewFollowUpQuestionsHandler(svc Synthesizer, audit *AuditRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionsRequest
		if err := decodeBody(w, r, &req); err != nil {
			response.Raw(w, http.StatusOK, questionsBody{
				Questions: fallback.QuestionsFor(""),
				Error:     "invalid JSON body",
			})
			return
		}

		start := time.Now()
		questions, err := svc.GenerateFollowUpQuestions(r.Context(), req.Condition, req.Specialty)

		body := questionsBody{Questions: questions, Error: clientMessage(err)}
		outcome := outcomeFor(err)
		if strings.TrimSpace(req.Condition) == "" {
			body.Error = "condition is required"
			outcome = models.OutcomeShortCircuit
		}
		audit.Record(r, models.OperationQuestions, start, outcome, err)

		response.Raw(w, http.StatusOK, body)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func outcomeFor(err error) string {
	if err != nil {
		return models.OutcomeFallback
	}
	return models.OutcomeOK
}

// clientMessage turns a synthesis error into a caller-visible string that
// does not leak provider details.
func clientMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ai.ErrInferenceTimeout):
		return "completion provider timed out"
	case errors.Is(err, ai.ErrEmptyResponse):
		return "completion provider returned no text"
	case errors.Is(err, ai.ErrNoQuestions):
		return "no questions could be read from the completion"
	default:
		return "completion provider unavailable"
	}
}
