// Package prompt renders the text prompts sent to the completion provider.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// Verdict section headers, in the order the model is instructed to emit them.
// The response parser uses each header as the right-hand delimiter of the
// previous section, so the order here is part of the contract.
const (
	SectionDiagnosis       = "CONSENSUS DIAGNOSIS"
	SectionAgreement       = "AGREEMENT ANALYSIS"
	SectionRecommendations = "RECOMMENDATIONS"
	SectionNextSteps       = "NEXT STEPS"
)

// VerdictSections lists the verdict headers in emission order.
var VerdictSections = []string{
	SectionDiagnosis,
	SectionAgreement,
	SectionRecommendations,
	SectionNextSteps,
}

// QuestionCount is the number of follow-up questions the model is asked for.
const QuestionCount = 5

// Builder constructs prompt strings.
// All methods are pure functions with no side effects.
// Zero value is ready to use.
type Builder struct{}

// Opinion returns the prompt for a single specialist opinion. Collaborative
// mode asks for a scoped diagnosis, a confidence percentage and a
// specialty-specific recommendation; otherwise a full diagnosis and treatment
// plan is requested. Both modes ask for the same labeled lines.
func (b Builder) Opinion(specialty, symptoms string, collaborative bool) string {
	var sb strings.Builder

	sb.WriteString(b.role(specialty))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Patient presentation: %s\n\n", strings.TrimSpace(symptoms))

	if collaborative {
		sb.WriteString("You are taking part in a multi-specialist consultation. ")
		sb.WriteString("Give your independent opinion from your specialty's perspective only.\n")
		sb.WriteString("Respond using exactly these labeled lines:\n")
		sb.WriteString("Diagnosis: <most likely diagnosis>\n")
		sb.WriteString("Confidence: <integer 1-100>%\n")
		if s := strings.TrimSpace(specialty); s != "" {
			fmt.Fprintf(&sb, "Recommendation: <recommendation limited to %s>\n", s)
		} else {
			sb.WriteString("Recommendation: <recommendation>\n")
		}
		return sb.String()
	}

	sb.WriteString("Provide a complete diagnosis and treatment plan for this patient.\n")
	sb.WriteString("Start your answer with these labeled lines, then add any detail below them:\n")
	sb.WriteString("Diagnosis: <most likely diagnosis>\n")
	sb.WriteString("Confidence: <integer 1-100>%\n")
	sb.WriteString("Treatment plan: <treatment plan>\n")
	sb.WriteString("Recommendation: <follow-up recommendation>\n")
	return sb.String()
}

// Verdict returns the consensus synthesis prompt. Opinions and turns are
// rendered as given; callers are expected to have deduplicated and windowed them.
func (b Builder) Verdict(symptoms string, opinions []models.SpecialistOpinion, turns []models.ConversationTurn) string {
	var sb strings.Builder

	sb.WriteString("You are the chair of a multi-specialist medical consultation. ")
	sb.WriteString("Synthesize the specialists' opinions into a single consensus verdict.\n\n")

	if s := strings.TrimSpace(symptoms); s != "" {
		fmt.Fprintf(&sb, "Patient symptoms: %s\n\n", s)
	}

	if len(opinions) > 0 {
		sb.WriteString("Specialist opinions:\n")
		for _, o := range opinions {
			sb.WriteString(b.opinionBlock(o))
		}
		sb.WriteString("\n")
	}

	if len(turns) > 0 {
		sb.WriteString("Consultation discussion:\n")
		for _, t := range turns {
			label := t.SenderLabel
			if label == "" {
				label = t.SenderID
			}
			fmt.Fprintf(&sb, "%s: \"%s\"\n", label, strings.TrimSpace(t.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with exactly these four sections, in this order, each starting on its own line with its header:\n")
	fmt.Fprintf(&sb, "1. %s: the single most likely diagnosis the specialists converge on.\n", SectionDiagnosis)
	fmt.Fprintf(&sb, "2. %s: where the specialists agree and where they differ.\n", SectionAgreement)
	fmt.Fprintf(&sb, "3. %s: the combined treatment recommendations.\n", SectionRecommendations)
	fmt.Fprintf(&sb, "4. %s: concrete next steps for the patient and care team.\n", SectionNextSteps)
	return sb.String()
}

// Questions returns the follow-up question prompt for a condition.
func (b Builder) Questions(condition, specialty string) string {
	var sb strings.Builder

	if s := strings.TrimSpace(specialty); s != "" {
		fmt.Fprintf(&sb, "You are a physician specializing in %s.\n", s)
	} else {
		sb.WriteString("You are an experienced physician.\n")
	}
	fmt.Fprintf(&sb, "A patient presents with: %s\n\n", strings.TrimSpace(condition))
	fmt.Fprintf(&sb, "Write exactly %d follow-up questions you would ask this patient", QuestionCount)
	if s := strings.TrimSpace(specialty); s != "" {
		fmt.Fprintf(&sb, ", relevant to %s", s)
	}
	sb.WriteString(".\n")
	sb.WriteString("Put one question per line. Do not number them and do not use bullets.\n")
	return sb.String()
}

func (b Builder) role(specialty string) string {
	s := strings.TrimSpace(specialty)
	if s == "" {
		return "You are an AI medical specialist."
	}
	return fmt.Sprintf("You are an AI medical specialist in %s.", s)
}

func (b Builder) opinionBlock(o models.SpecialistOpinion) string {
	var sb strings.Builder
	name := o.SpecialistName
	if name == "" {
		name = o.SpecialistID
	}
	if o.Specialty != "" {
		fmt.Fprintf(&sb, "- %s (%s)\n", name, o.Specialty)
	} else {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	fmt.Fprintf(&sb, "  Diagnosis: %s\n", strings.TrimSpace(o.Diagnosis))
	if o.Confidence > 0 {
		fmt.Fprintf(&sb, "  Confidence: %d%%\n", o.Confidence)
	}
	if r := strings.TrimSpace(o.Recommendation); r != "" {
		fmt.Fprintf(&sb, "  Recommendation: %s\n", r)
	}
	return sb.String()
}
