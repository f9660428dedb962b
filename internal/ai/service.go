package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kiranshivaraju/medconsensus/internal/aggregate"
	"github.com/kiranshivaraju/medconsensus/internal/fallback"
	"github.com/kiranshivaraju/medconsensus/internal/metrics"
	"github.com/kiranshivaraju/medconsensus/internal/parse"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
	"github.com/kiranshivaraju/medconsensus/pkg/prompt"
)

// OpinionRequest holds the inputs for a single specialist opinion.
type OpinionRequest struct {
	Specialty      string
	Symptoms       string
	SpecialistID   string
	SpecialistName string
	Collaborative  bool
}

// VerdictRequest holds the inputs for a consensus verdict.
type VerdictRequest struct {
	Symptoms string
	Opinions []models.SpecialistOpinion
	Turns    []models.ConversationTurn
}

// SynthesisService builds prompts, calls the gateway once and parses the
// reply. Every method returns a usable value; a non-nil error reports that
// the value came from the fallback table.
type SynthesisService struct {
	gateway *Gateway
	builder prompt.Builder
	parser  *parse.Parser
	window  aggregate.Window
	now     func() time.Time
	metrics *metrics.Metrics
}

// Option configures a SynthesisService.
type Option func(*SynthesisService)

// WithClock sets the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *SynthesisService) { s.now = now }
}

// WithFallbackConfidence replaces the random fallback confidence.
func WithFallbackConfidence(f func() int) Option {
	return func(s *SynthesisService) { s.parser.FallbackConfidence = f }
}

// WithContextWindow sets the conversation window used for verdicts.
func WithContextWindow(w aggregate.Window) Option {
	return func(s *SynthesisService) { s.window = w }
}

// WithMetrics records fallbacks in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SynthesisService) { s.metrics = m }
}

// NewSynthesisService creates a new SynthesisService.
func NewSynthesisService(gateway *Gateway, opts ...Option) *SynthesisService {
	s := &SynthesisService{
		gateway: gateway,
		parser:  parse.New(),
		window:  aggregate.NewWindow(aggregate.DefaultWindowSize),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the name and model of the underlying provider.
func (s *SynthesisService) Provider() (name, model string) {
	return s.gateway.Name(), s.gateway.Model()
}

// GenerateOpinion produces one specialist opinion. On gateway failure the
// diagnosis and recommendation take their defaults and the confidence comes
// from the fallback confidence function.
func (s *SynthesisService) GenerateOpinion(ctx context.Context, req OpinionRequest) (models.MedicalResponseResult, error) {
	result := models.MedicalResponseResult{
		Specialty:      req.Specialty,
		SpecialistID:   req.SpecialistID,
		SpecialistName: req.SpecialistName,
	}

	raw, err := s.gateway.Complete(ctx, s.builder.Opinion(req.Specialty, req.Symptoms, req.Collaborative))
	if err != nil {
		s.recordFallback(models.OperationOpinion, err)
		fields := s.parser.Opinion("")
		result.FullResponse = fallback.UnavailableResponse
		result.Diagnosis = fields.Diagnosis
		result.Confidence = fields.Confidence
		result.Recommendation = fields.Recommendation
		return result, fmt.Errorf("generating opinion: %w", err)
	}

	fields := s.parser.Opinion(raw)
	if len(fields.Defaulted) > 0 {
		slog.Debug("opinion fields defaulted",
			"provider", s.gateway.Name(),
			"fields", fields.Defaulted,
		)
	}

	result.FullResponse = raw
	result.Diagnosis = fields.Diagnosis
	result.Confidence = fields.Confidence
	result.Recommendation = fields.Recommendation
	return result, nil
}

// GenerateVerdict deduplicates opinions, windows the conversation and
// synthesizes a consensus verdict. On gateway failure it returns the default
// verdict with an empty FullText.
func (s *SynthesisService) GenerateVerdict(ctx context.Context, req VerdictRequest) (models.ConsensusVerdict, error) {
	opinions := aggregate.RetainLatest(req.Opinions)
	turns := s.window.Select(req.Turns)

	raw, err := s.gateway.Complete(ctx, s.builder.Verdict(req.Symptoms, opinions, turns))
	if err != nil {
		s.recordFallback(models.OperationVerdict, err)
		v := fallback.DefaultVerdict()
		v.GeneratedAt = s.now()
		return v, fmt.Errorf("generating verdict: %w", err)
	}

	v := s.parser.Verdict(raw)
	v.GeneratedAt = s.now()
	return v, nil
}

// GenerateFollowUpQuestions returns between one and five questions. A blank
// condition returns the generic set without calling the gateway; a reply with
// no usable questions is replaced by the set for condition.
func (s *SynthesisService) GenerateFollowUpQuestions(ctx context.Context, condition, specialty string) ([]string, error) {
	if strings.TrimSpace(condition) == "" {
		s.metrics.IncFallback(models.OperationQuestions, "empty_condition")
		return fallback.QuestionsFor(""), nil
	}

	raw, err := s.gateway.Complete(ctx, s.builder.Questions(condition, specialty))
	if err != nil {
		s.recordFallback(models.OperationQuestions, err, "category", fallback.Category(condition))
		return fallback.QuestionsFor(condition), fmt.Errorf("generating questions: %w", err)
	}

	questions := s.parser.Questions(raw)
	if len(questions) == 0 {
		s.recordFallback(models.OperationQuestions, ErrNoQuestions, "category", fallback.Category(condition))
		return fallback.QuestionsFor(condition), fmt.Errorf("generating questions: %w", ErrNoQuestions)
	}
	return questions, nil
}

func (s *SynthesisService) recordFallback(operation string, err error, attrs ...any) {
	s.metrics.IncFallback(operation, FallbackReason(err))
	args := append([]any{
		"operation", operation,
		"provider", s.gateway.Name(),
		"error", err,
	}, attrs...)
	slog.Warn("synthesis fell back to defaults", args...)
}

// FallbackReason maps a synthesis error onto a short label.
func FallbackReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInferenceTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrNoQuestions):
		return "no_questions"
	default:
		return "other"
	}
}
