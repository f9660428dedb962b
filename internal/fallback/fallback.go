// Package fallback holds the static answers returned when the completion
// provider cannot produce a usable result.
package fallback

import (
	"strings"

	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// Default opinion fields used when a reply has no recognizable label.
const (
	DefaultDiagnosis      = "Unknown condition"
	DefaultRecommendation = "Please consult with a human doctor for proper diagnosis and treatment."
)

// Verdict placeholders, one per section.
const (
	PlaceholderDiagnosis       = "No consensus diagnosis could be determined from the specialist opinions."
	PlaceholderAgreement       = "Agreement analysis is unavailable for this consultation."
	PlaceholderRecommendations = "Please consult with a human doctor for proper diagnosis and treatment."
	PlaceholderNextSteps       = "Schedule an in-person evaluation with a qualified physician."
)

// category is a keyword group with its fixed question set.
type category struct {
	name      string
	keywords  []string
	questions []string
}

// categories are checked in order; the first one with a keyword contained in
// the lowercased condition wins.
var categories = []category{
	{
		name:     "diabetes",
		keywords: []string{"diabet", "blood sugar", "glucose"},
		questions: []string{
			"How often do you check your blood sugar, and what readings have you seen recently?",
			"Have you noticed increased thirst, frequent urination, or unexplained weight loss?",
			"Do you experience numbness, tingling, or pain in your hands or feet?",
			"What medications or insulin are you currently taking, and how consistently?",
			"Have you had any cuts or sores that are slow to heal?",
		},
	},
	{
		name:     "hypertension",
		keywords: []string{"hypertension", "blood pressure"},
		questions: []string{
			"What have your most recent blood pressure readings been?",
			"Do you experience headaches, dizziness, or blurred vision?",
			"Are you currently taking any medication for blood pressure?",
			"How much salt, alcohol, and caffeine do you consume on a typical day?",
			"Is there a family history of heart disease or stroke?",
		},
	},
	{
		name:     "asthma",
		keywords: []string{"asthma"},
		questions: []string{
			"How often do you experience wheezing or shortness of breath?",
			"What triggers your symptoms, such as exercise, cold air, or allergens?",
			"How often do you need to use your rescue inhaler?",
			"Do your symptoms wake you up at night?",
			"Have you ever needed emergency care for a breathing attack?",
		},
	},
	{
		name:     "mental_health",
		keywords: []string{"depress", "anxiety", "anxious"},
		questions: []string{
			"How long have you been feeling this way?",
			"Has your sleep or appetite changed recently?",
			"Are you still able to enjoy activities you used to like?",
			"Have you had any thoughts of harming yourself?",
			"Do you have people you can talk to for support?",
		},
	},
	{
		name:     "headache",
		keywords: []string{"migraine", "headache"},
		questions: []string{
			"Where exactly is the pain located, and how would you describe it?",
			"How often do the headaches occur, and how long do they last?",
			"Do you notice sensitivity to light, sound, or nausea during an episode?",
			"Have you identified any triggers such as food, stress, or lack of sleep?",
			"What have you taken for the pain, and did it help?",
		},
	},
}

var generic = []string{
	"When did your symptoms first start?",
	"How severe are your symptoms on a scale from 1 to 10?",
	"Have your symptoms gotten better, worse, or stayed the same?",
	"Are you currently taking any medications or supplements?",
	"Do you have any other medical conditions or allergies?",
}

// QuestionsFor returns exactly five follow-up questions for condition.
// The returned slice is a copy and may be modified by the caller.
func QuestionsFor(condition string) []string {
	return clone(match(condition).questions)
}

// Category returns the name of the category that condition falls into, or
// "generic" when no keyword matches.
func Category(condition string) string {
	return match(condition).name
}

func match(condition string) category {
	c := strings.ToLower(condition)
	if strings.TrimSpace(c) != "" {
		for _, cat := range categories {
			for _, kw := range cat.keywords {
				if strings.Contains(c, kw) {
					return cat
				}
			}
		}
	}
	return category{name: "generic", questions: generic}
}

// DefaultVerdict returns a verdict with every section set to its placeholder
// and an empty FullText.
func DefaultVerdict() models.ConsensusVerdict {
	return models.ConsensusVerdict{
		ConsensusDiagnosis: PlaceholderDiagnosis,
		AgreementAnalysis:  PlaceholderAgreement,
		Recommendations:    PlaceholderRecommendations,
		NextSteps:          PlaceholderNextSteps,
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// UnavailableResponse is the caller-visible apology used as the full response
// when no opinion could be generated.
const UnavailableResponse = "I'm sorry, I am unable to provide a medical opinion right now. Please consult with a human doctor for proper diagnosis and treatment."
