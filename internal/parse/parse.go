// Package parse turns free-text completions back into structured records.
// Every function is total: when a field cannot be found a documented default
// is substituted rather than an error returned.
package parse

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/kiranshivaraju/medconsensus/internal/fallback"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
	"github.com/kiranshivaraju/medconsensus/pkg/prompt"
)

// Field names reported in OpinionFields.Defaulted.
const (
	FieldDiagnosis      = "diagnosis"
	FieldConfidence     = "confidence"
	FieldRecommendation = "recommendation"
)

// FallbackConfidence returns a confidence in [70,99] for replies that carry no
// usable percentage.
func FallbackConfidence() int {
	return 70 + rand.IntN(30)
}

// OpinionFields is the structured part of a specialist reply.
type OpinionFields struct {
	Diagnosis      string
	Confidence     int
	Recommendation string
	// Defaulted names the fields that were not found in the reply.
	Defaulted []string
}

// Parser extracts opinions, verdicts and question lists from model output.
type Parser struct {
	// FallbackConfidence supplies the confidence when none is parsed.
	// Nil means the package FallbackConfidence.
	FallbackConfidence func() int
}

// New returns a Parser using the package FallbackConfidence.
func New() *Parser {
	return &Parser{FallbackConfidence: FallbackConfidence}
}

// Opinion extracts diagnosis, confidence and recommendation from raw.
func (p *Parser) Opinion(raw string) OpinionFields {
	var out OpinionFields

	if v, _, ok := firstMatch(diagnosisRules, raw, cutAtLabel); ok {
		out.Diagnosis = v
	} else {
		out.Diagnosis = fallback.DefaultDiagnosis
		out.Defaulted = append(out.Defaulted, FieldDiagnosis)
	}

	if n, ok := confidence(raw); ok {
		out.Confidence = n
	} else {
		out.Confidence = p.fallbackConfidence()
		out.Defaulted = append(out.Defaulted, FieldConfidence)
	}

	if v, _, ok := firstMatch(recommendationRules, raw, cutAtLabel); ok {
		out.Recommendation = v
	} else {
		out.Recommendation = fallback.DefaultRecommendation
		out.Defaulted = append(out.Defaulted, FieldRecommendation)
	}

	return out
}

func (p *Parser) fallbackConfidence() int {
	f := p.FallbackConfidence
	if f == nil {
		f = FallbackConfidence
	}
	n := f()
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

// Verdict splits raw into the four verdict sections. Headers are searched in
// emission order, each only after the end of the previous header found, and a
// section runs from its header to the next header found or to the end of
// text. Missing or empty sections take the fallback placeholder. FullText is
// always raw.
func (p *Parser) Verdict(raw string) models.ConsensusVerdict {
	v := fallback.DefaultVerdict()
	v.FullText = raw

	type span struct{ start, end int }
	var found []span
	var index []int
	pos := 0
	for i, re := range sectionHeaders {
		loc := re.FindStringIndex(raw[pos:])
		if loc == nil {
			continue
		}
		found = append(found, span{start: pos + loc[0], end: pos + loc[1]})
		index = append(index, i)
		pos += loc[1]
	}

	targets := []*string{&v.ConsensusDiagnosis, &v.AgreementAnalysis, &v.Recommendations, &v.NextSteps}
	for k, s := range found {
		stop := len(raw)
		if k+1 < len(found) {
			stop = found[k+1].start
		}
		if text := trimSection(raw[s.end:stop]); text != "" {
			*targets[index[k]] = text
		}
	}
	return v
}

var sectionHeaders = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(prompt.VerdictSections))
	for i, h := range prompt.VerdictSections {
		out[i] = sectionHeader(h)
	}
	return out
}()

// trimSection strips surrounding whitespace and stray markdown emphasis.
func trimSection(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

// Questions returns up to prompt.QuestionCount distinct question lines from
// raw in their original order. Lines without a question mark are dropped.
func (p *Parser) Questions(raw string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" || !strings.Contains(line, "?") {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
		if len(out) == prompt.QuestionCount {
			break
		}
	}
	return out
}
