package inference

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertalab/durazno/internal/catalogue"
)

func defaultRules() []catalogue.Rule {
	return catalogue.Default().Rules()
}

func TestInfer_CancroScenario(t *testing.T) {
	obs := Observations{"ramas_secas": true, "muerte_planta": true}
	scores, trace := Infer(obs, defaultRules())

	require.Len(t, scores, 5)
	require.Len(t, trace, 5)

	r3 := scores[2]
	assert.Equal(t, "R3", r3.RuleID)
	assert.InDelta(t, 1.7/2.4, r3.Score, 1e-9)
	assert.Equal(t, LabelConfirmed, r3.Label)
	assert.Equal(t, []string{"ramas_secas", "muerte_planta"}, r3.MatchedSymptoms)
	assert.Equal(t, "Regla R3 (Cancro bacteriano): 70.8% síntomas presentes → Diagnóstico: Confirmado", trace[2])

	for i, s := range scores {
		if i == 2 {
			continue
		}
		if s.Score != 0 {
			t.Errorf("rule %s: got score %f, want 0", s.RuleID, s.Score)
		}
		if s.Label != LabelNotDetected {
			t.Errorf("rule %s: got label %q, want %q", s.RuleID, s.Label, LabelNotDetected)
		}
	}

	ranked := Rank(scores)
	require.Len(t, ranked, 1)
	assert.Equal(t, "R3", ranked[0].RuleID)
}

func TestInfer_EmptyObservations(t *testing.T) {
	scores, trace := Infer(Observations{}, defaultRules())
	require.Len(t, scores, 5)
	for _, s := range scores {
		assert.Zero(t, s.Score)
		assert.Equal(t, LabelNotDetected, s.Label)
		assert.Empty(t, s.MatchedSymptoms)
	}
	assert.Contains(t, trace[0], "0.0%")
	assert.Empty(t, Rank(scores))
}

func TestInfer_NilObservations(t *testing.T) {
	scores, _ := Infer(nil, defaultRules())
	for _, s := range scores {
		assert.Zero(t, s.Score)
	}
}

func TestInfer_PreservesRuleOrder(t *testing.T) {
	rules := defaultRules()
	// Highest score on the last rule must not move it to the front.
	obs := ObservationsFrom("crecimiento_lento", "hojas_amarillas", "caida_frutos", "manchas_hojas")
	scores, _ := Infer(obs, rules)
	for i, r := range rules {
		assert.Equal(t, r.ID, scores[i].RuleID)
	}
	assert.Equal(t, 1.0, scores[4].Score)
}

func TestInfer_SharedSymptomCountsForEveryRule(t *testing.T) {
	scores, _ := Infer(ObservationsFrom("hojas_amarillas"), defaultRules())
	assert.InDelta(t, 0.5/2.0, scores[0].Score, 1e-9)
	assert.InDelta(t, 0.4/1.5, scores[4].Score, 1e-9)
}

func TestInfer_UnknownKeysIgnored(t *testing.T) {
	base, _ := Infer(ObservationsFrom("plagas"), defaultRules())
	noisy, _ := Infer(ObservationsFrom("plagas", "not_a_symptom", "xyz"), defaultRules())
	assert.Equal(t, base, noisy)
}

func TestInfer_FalseValuesIgnored(t *testing.T) {
	scores, _ := Infer(Observations{"polvo_blanco": false, "manchas_hojas": true}, defaultRules())
	assert.InDelta(t, 0.7/2.0, scores[0].Score, 1e-9)
	assert.Equal(t, []string{"manchas_hojas"}, scores[0].MatchedSymptoms)
}

func TestInfer_ScoreIndependentOfUnrelatedSymptoms(t *testing.T) {
	rules := defaultRules()
	base, _ := Infer(ObservationsFrom("polvo_blanco"), rules)
	// plagas belongs only to R2.
	other, _ := Infer(ObservationsFrom("polvo_blanco", "plagas"), rules)
	assert.Equal(t, base[0], other[0])
	assert.Equal(t, base[2], other[2])
}

func TestInfer_MonotonicInAddedSymptoms(t *testing.T) {
	rules := defaultRules()
	keys := []string{"manchas_hojas", "plagas", "corteza_rajada", "olor_raro", "caida_frutos", "polvo_blanco"}
	obs := Observations{}
	prev, _ := Infer(obs, rules)
	for _, k := range keys {
		obs[k] = true
		next, _ := Infer(obs, rules)
		for i := range next {
			if next[i].Score < prev[i].Score {
				t.Errorf("adding %q lowered %s from %f to %f", k, next[i].RuleID, prev[i].Score, next[i].Score)
			}
		}
		prev = next
	}
}

func TestInfer_ScoreBounds(t *testing.T) {
	all := Observations{}
	for _, r := range defaultRules() {
		for _, s := range r.Symptoms {
			all[s.Key] = true
		}
	}
	scores, _ := Infer(all, defaultRules())
	for _, s := range scores {
		if s.Score < 0 || s.Score > 1 {
			t.Errorf("rule %s: score %f outside [0,1]", s.RuleID, s.Score)
		}
		assert.Equal(t, LabelConfirmed, s.Label)
	}
}

func TestInfer_Idempotent(t *testing.T) {
	obs := ObservationsFrom("frutos_podridos", "hongos_visibles")
	a, ta := Infer(obs, defaultRules())
	b, tb := Infer(obs, defaultRules())
	assert.Equal(t, a, b)
	assert.Equal(t, ta, tb)
}

func TestInfer_ZeroWeightRule(t *testing.T) {
	rules := []catalogue.Rule{
		{ID: "Z", Disease: "Nada", Symptoms: []catalogue.WeightedSymptom{{Key: "a", Weight: 0}}},
		{ID: "E", Disease: "Vacía"},
	}
	scores, trace := Infer(ObservationsFrom("a"), rules)
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.Zero(t, s.Score)
		assert.False(t, math.IsNaN(s.Score))
		assert.Equal(t, LabelNotDetected, s.Label)
	}
	assert.Len(t, trace, 2)
}

func TestInfer_NoRules(t *testing.T) {
	scores, trace := Infer(ObservationsFrom("a"), nil)
	assert.Empty(t, scores)
	assert.Empty(t, trace)
}

func TestLabelFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{1.0, LabelConfirmed},
		{0.7, LabelConfirmed},
		{0.6999, LabelSuspected},
		{0.4, LabelSuspected},
		{0.3999, LabelNotDetected},
		{0, LabelNotDetected},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.score); got != tt.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRank_StableAndNonMutating(t *testing.T) {
	scores := []RuleScore{
		{RuleID: "A", Score: 0.5},
		{RuleID: "B", Score: 0},
		{RuleID: "C", Score: 0.8},
		{RuleID: "D", Score: 0.5},
	}
	orig := append([]RuleScore(nil), scores...)

	ranked := Rank(scores)
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.RuleID
	}
	assert.Equal(t, []string{"C", "A", "D"}, ids)
	assert.Equal(t, orig, scores)
}

func TestTop(t *testing.T) {
	_, ok := Top(nil)
	assert.False(t, ok)

	top, ok := Top([]RuleScore{
		{RuleID: "A", Score: 0.2},
		{RuleID: "B", Score: 0.6},
		{RuleID: "C", Score: 0.6},
	})
	require.True(t, ok)
	assert.Equal(t, "B", top.RuleID)

	top, ok = Top([]RuleScore{{RuleID: "A"}, {RuleID: "B"}})
	require.True(t, ok)
	assert.Equal(t, "A", top.RuleID)
}

func TestLabel_Display(t *testing.T) {
	assert.Equal(t, "Confirmado", LabelConfirmed.Display())
	assert.Equal(t, "Sospecha", LabelSuspected.Display())
	assert.Equal(t, "No detectado", LabelNotDetected.Display())
}

func TestInfer_ConcurrentSharedCatalogue(t *testing.T) {
	rules := catalogue.Default().Rules()
	inputs := []Observations{
		ObservationsFrom("ramas_secas", "muerte_planta"),
		ObservationsFrom("polvo_blanco", "manchas_hojas"),
		ObservationsFrom("frutos_podridos", "hongos_visibles", "olor_raro"),
		{},
	}
	want := make([][]RuleScore, len(inputs))
	for i, obs := range inputs {
		want[i], _ = Infer(obs, rules)
	}

	var wg sync.WaitGroup
	got := make([][]RuleScore, 64)
	for g := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[g], _ = Infer(inputs[g%len(inputs)], rules)
		}()
	}
	wg.Wait()

	for g, scores := range got {
		assert.Equal(t, want[g%len(inputs)], scores)
	}
	assert.Equal(t, catalogue.Default().Rules(), rules)
}
