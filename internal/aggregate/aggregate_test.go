package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func opinion(id, diagnosis string, at time.Time) models.SpecialistOpinion {
	return models.SpecialistOpinion{SpecialistID: id, Diagnosis: diagnosis, ProducedAt: at}
}

func TestRetainLatest_KeepsNewest(t *testing.T) {
	in := []models.SpecialistOpinion{
		opinion("cardio", "old", t0),
		opinion("neuro", "only", t0.Add(time.Minute)),
		opinion("cardio", "new", t0.Add(2*time.Minute)),
		opinion("cardio", "stale", t0.Add(time.Second)),
	}

	got := RetainLatest(in)
	require.Len(t, got, 2)
	assert.Equal(t, "cardio", got[0].SpecialistID)
	assert.Equal(t, "new", got[0].Diagnosis)
	assert.Equal(t, "neuro", got[1].SpecialistID)
}

func TestRetainLatest_TieKeepsLaterInput(t *testing.T) {
	in := []models.SpecialistOpinion{
		opinion("gp", "first", t0),
		opinion("gp", "second", t0),
	}
	got := RetainLatest(in)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Diagnosis)
}

func TestRetainLatest_ZeroTimestampsTie(t *testing.T) {
	in := []models.SpecialistOpinion{
		opinion("gp", "first", time.Time{}),
		opinion("derm", "x", time.Time{}),
		opinion("gp", "second", time.Time{}),
	}
	got := RetainLatest(in)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Diagnosis)
	assert.Equal(t, "derm", got[1].SpecialistID)
}

func TestRetainLatest_FirstAppearanceOrder(t *testing.T) {
	in := []models.SpecialistOpinion{
		opinion("c", "", t0),
		opinion("a", "", t0),
		opinion("b", "", t0),
		opinion("a", "", t0.Add(time.Hour)),
		opinion("c", "", t0.Add(time.Hour)),
	}
	got := RetainLatest(in)
	ids := make([]string, len(got))
	for i, o := range got {
		ids[i] = o.SpecialistID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestRetainLatest_Empty(t *testing.T) {
	assert.Empty(t, RetainLatest(nil))
}

func TestRetainLatest_OnePerSpecialistProperty(t *testing.T) {
	var in []models.SpecialistOpinion
	latest := map[string]time.Time{}
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("s%d", i%7)
		at := t0.Add(time.Duration((i*37)%11) * time.Minute)
		in = append(in, opinion(id, fmt.Sprint(i), at))
		if at.After(latest[id]) || latest[id].IsZero() {
			latest[id] = at
		}
	}

	got := RetainLatest(in)
	require.Len(t, got, 7)
	seen := map[string]bool{}
	for _, o := range got {
		assert.False(t, seen[o.SpecialistID], "duplicate %s", o.SpecialistID)
		seen[o.SpecialistID] = true
		assert.True(t, o.ProducedAt.Equal(latest[o.SpecialistID]), "specialist %s", o.SpecialistID)
	}
}

func turns(senders ...string) []models.ConversationTurn {
	out := make([]models.ConversationTurn, len(senders))
	for i, s := range senders {
		out[i] = models.ConversationTurn{SenderID: s, Content: fmt.Sprint(i), Sequence: i}
	}
	return out
}

func TestWindow_ExcludesSyntheticSenders(t *testing.T) {
	w := NewWindow(0)
	got := w.Select(turns("patient", "system", "cardio", "Moderator", "admin", "patient"))

	require.Len(t, got, 3)
	for _, turn := range got {
		assert.NotContains(t, []string{"system", "moderator", "admin"}, turn.SenderID)
	}
	assert.Equal(t, []int{0, 2, 5}, []int{got[0].Sequence, got[1].Sequence, got[2].Sequence})
}

func TestWindow_KeepsLastTen(t *testing.T) {
	var senders []string
	for i := 0; i < 25; i++ {
		if i%4 == 0 {
			senders = append(senders, "system")
		} else {
			senders = append(senders, "patient")
		}
	}
	in := turns(senders...)

	got := Window{}.Select(in)
	require.Len(t, got, DefaultWindowSize)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Sequence, got[i].Sequence)
	}
	assert.Equal(t, 23, got[len(got)-1].Sequence)
	for _, turn := range got {
		assert.Equal(t, "patient", turn.SenderID)
	}
}

func TestWindow_CustomExclusionAndSize(t *testing.T) {
	w := NewWindow(2, "bot")
	got := w.Select(turns("system", "bot", "a", "b", "c"))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].SenderID)
	assert.Equal(t, "c", got[1].SenderID)
}

func TestWindow_DoesNotModifyInput(t *testing.T) {
	in := turns("system", "a", "b")
	_ = NewWindow(1).Select(in)
	assert.Equal(t, "system", in[0].SenderID)
	assert.Len(t, in, 3)
}

func TestWindow_Empty(t *testing.T) {
	assert.Empty(t, NewWindow(0).Select(nil))
}
