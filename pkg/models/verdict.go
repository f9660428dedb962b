package models

import "time"

// ConsensusVerdict is the four-section report merging several specialist
// opinions into one recommendation. The four text fields are never empty:
// a section that could not be parsed carries a fixed placeholder. FullText
// keeps the raw model output even when parsing only partly succeeded.
type ConsensusVerdict struct {
	FullText           string    `json:"fullText"`
	ConsensusDiagnosis string    `json:"consensusDiagnosis"`
	AgreementAnalysis  string    `json:"agreementAnalysis"`
	Recommendations    string    `json:"recommendations"`
	NextSteps          string    `json:"nextSteps"`
	GeneratedAt        time.Time `json:"generatedAt"`
}
