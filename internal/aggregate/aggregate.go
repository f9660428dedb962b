// Package aggregate deduplicates specialist opinions and selects the slice of
// conversation that goes into a synthesis prompt.
package aggregate

import (
	"strings"

	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// DefaultWindowSize is the maximum number of turns included in a prompt.
const DefaultWindowSize = 10

// DefaultExcludedSenders are the synthetic senders dropped from the window.
var DefaultExcludedSenders = []string{"system", "moderator", "admin"}

// RetainLatest keeps one opinion per SpecialistID: the one with the latest
// ProducedAt, or the later one in input order when timestamps are equal.
// Output follows the order in which each SpecialistID first appears.
func RetainLatest(opinions []models.SpecialistOpinion) []models.SpecialistOpinion {
	if len(opinions) == 0 {
		return nil
	}

	index := make(map[string]int, len(opinions))
	out := make([]models.SpecialistOpinion, 0, len(opinions))

	for _, o := range opinions {
		i, ok := index[o.SpecialistID]
		if !ok {
			index[o.SpecialistID] = len(out)
			out = append(out, o)
			continue
		}
		if !o.ProducedAt.Before(out[i].ProducedAt) {
			out[i] = o
		}
	}
	return out
}

// Window selects the conversation context for a verdict prompt.
type Window struct {
	// Excluded holds lowercased sender IDs that never enter the window.
	Excluded map[string]bool
	// Size caps the number of turns returned. Zero or negative means
	// DefaultWindowSize.
	Size int
}

// NewWindow returns a Window excluding the given senders. With no senders the
// defaults are used.
func NewWindow(size int, excluded ...string) Window {
	if len(excluded) == 0 {
		excluded = DefaultExcludedSenders
	}
	set := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return Window{Excluded: set, Size: size}
}

// Select drops excluded senders and returns at most the last Size remaining
// turns, oldest first. The input slice is not modified.
func (w Window) Select(turns []models.ConversationTurn) []models.ConversationTurn {
	excluded := w.Excluded
	if excluded == nil {
		excluded = NewWindow(0).Excluded
	}
	size := w.Size
	if size <= 0 {
		size = DefaultWindowSize
	}

	kept := make([]models.ConversationTurn, 0, len(turns))
	for _, t := range turns {
		if excluded[strings.ToLower(strings.TrimSpace(t.SenderID))] {
			continue
		}
		kept = append(kept, t)
	}

	if len(kept) > size {
		kept = kept[len(kept)-size:]
	}
	return kept
}
