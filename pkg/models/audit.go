package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OperationOpinion   = "opinion"
	OperationVerdict   = "verdict"
	OperationQuestions = "questions"
)

const (
	OutcomeOK           = "ok"
	OutcomeFallback     = "fallback"
	OutcomeShortCircuit = "short_circuit"
)

// SynthesisAudit is an operational record of one synthesis call. It carries
// no clinical content: symptoms, prompts and model output are never stored.
type SynthesisAudit struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	RequestID    string    `db:"request_id"    json:"request_id"`
	Operation    string    `db:"operation"     json:"operation"`
	Provider     string    `db:"provider"      json:"provider"`
	Model        string    `db:"model"         json:"model"`
	Outcome      string    `db:"outcome"       json:"outcome"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	DurationMS   int64     `db:"duration_ms"   json:"duration_ms"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
