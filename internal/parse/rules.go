package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one entry of an ordered extraction table. Pattern must have exactly
// one capture group holding the extracted value.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// find returns the trimmed first capture group of r, or false when the pattern
// does not match or captures only whitespace.
func (r Rule) find(raw string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// firstMatch evaluates rules in order and returns the value of the first rule
// that matches, along with the rule name.
func firstMatch(rules []Rule, raw string, clean func(string) string) (value, rule string, ok bool) {
	for _, r := range rules {
		v, found := r.find(raw)
		if !found {
			continue
		}
		if clean != nil {
			v = clean(v)
		}
		if v != "" {
			return v, r.Name, true
		}
	}
	return "", "", false
}

// labelStop matches the start of any label the opinion parser knows about.
// A field value ends where the next label begins.
var labelStop = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(?:diagnosis|diagnosed with|condition|suffering from|confidence|recommendations?|treatment plan|treatment|advice)[*_]*\s*:|\b\d{1,3}\s*%\s*confidence\b`)

// cutAtLabel truncates v at the first known label and trims the remainder,
// including markdown emphasis left around the value.
func cutAtLabel(v string) string {
	if loc := labelStop.FindStringIndex(v); loc != nil {
		v = v[:loc[0]]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(v), "*_"))
}

// labelRule builds a rule capturing the rest of the line after label. Markdown
// emphasis is allowed on either side of the colon, so "**Diagnosis:** x" and
// "**Diagnosis**: x" both match. The label must not follow a letter or digit;
// "_" is allowed so "__Diagnosis:__" matches.
func labelRule(name, label string, colonOptional bool) Rule {
	colon := `:`
	if colonOptional {
		colon = `:?`
	}
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])` + label + `[*_]*[ \t]*` + colon + `[ \t*_]*([^\r\n]*)`),
	}
}

// diagnosisRules lists diagnosis label synonyms in priority order. Each
// captures the rest of its line.
var diagnosisRules = []Rule{
	labelRule("diagnosis", `diagnosis`, false),
	labelRule("diagnosed_with", `diagnosed with`, true),
	labelRule("condition", `condition`, false),
	labelRule("suffering_from", `suffering from`, true),
}

// recommendationRules lists recommendation label synonyms in priority order.
var recommendationRules = []Rule{
	labelRule("recommendation", `recommendations?`, false),
	labelRule("treatment_plan", `treatment plan`, false),
	labelRule("treatment", `treatment`, false),
	labelRule("advice", `advice`, false),
}

// confidenceRules capture an integer percentage next to the word confidence.
var confidenceRules = []Rule{
	{Name: "label", Pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])confidence(?:\s+(?:level|score))?[*_]*\s*[:=]?[\s*_]*(\d{1,3})\s*%`)},
	{Name: "suffix", Pattern: regexp.MustCompile(`(?i)\b(\d{1,3})\s*%[*_]*\s*confidence\b`)},
}

// confidence returns the first in-range percentage found by confidenceRules.
// Values outside [1,100] are treated as absent and the next rule is tried.
func confidence(raw string) (int, bool) {
	for _, r := range confidenceRules {
		for _, m := range r.Pattern.FindAllStringSubmatch(raw, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > 100 {
				continue
			}
			return n, true
		}
	}
	return 0, false
}

// listMarker matches bullets and numbering at the start of a line.
var listMarker = regexp.MustCompile(`^(?:[-*•>]+|\(?\d{1,2}[.):])\s*`)

// sectionHeader builds the line-anchored pattern for a verdict header. It
// tolerates numbering and markdown decoration before the header. The header
// words must be followed by a colon or by the end of the line, so a body
// line that merely starts with the same words is not a header.
func sectionHeader(header string) *regexp.Regexp {
	words := strings.Fields(header)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?im)^[ \t>#*_\d.)(-]*` + strings.Join(words, `[ \t]+`) + `[ \t*_]*(?::[ \t*_]*|\r?$)`)
}
