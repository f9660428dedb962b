package models

import "time"

// SpecialistOpinion is one specialist agent's independent diagnostic opinion.
// For a given synthesis request at most one opinion per SpecialistID is used.
type SpecialistOpinion struct {
	SpecialistID   string    `json:"specialistId"`
	SpecialistName string    `json:"specialistName"`
	Specialty      string    `json:"specialty"`
	Diagnosis      string    `json:"diagnosis"`
	Confidence     int       `json:"confidence"`
	Recommendation string    `json:"recommendation"`
	ProducedAt     time.Time `json:"producedAt"`
}

// ConversationTurn is a single message of the consultation chat fed into
// verdict synthesis as context.
type ConversationTurn struct {
	SenderID    string `json:"senderId"`
	SenderLabel string `json:"senderLabel"`
	Content     string `json:"content"`
	Sequence    int    `json:"sequence"`
}

// MedicalResponseResult is the structured form of one specialist's reply.
// Confidence is always within [1, 100].
type MedicalResponseResult struct {
	FullResponse   string `json:"fullResponse"`
	Diagnosis      string `json:"diagnosis"`
	Confidence     int    `json:"confidence"`
	Recommendation string `json:"recommendation"`
	Specialty      string `json:"specialty"`
	SpecialistID   string `json:"agentId"`
	SpecialistName string `json:"agentName"`
}
