package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() FilterPolicy {
	return FilterPolicy{
		Equivalences:         map[string]string{"rawA": "A"},
		Allowlist:            map[string]bool{"A": true, "B": true, "Sano": true},
		HealthyLabel:         "Sano",
		HealthyMinConfidence: 0.7,
		DominanceThreshold:   0.5,
	}
}

func diseases(preds []Prediction) []string {
	out := make([]string, len(preds))
	for i, p := range preds {
		out[i] = p.Disease
	}
	return out
}

func TestTranslateAndFilter_DominanceCollapse(t *testing.T) {
	policy := testPolicy()
	policy.HealthyMinConfidence = 0 // isolate the dominance knob

	preds, err := TranslateAndFilter([]float64{0.55, 0.3, 0.15}, []string{"Sano", "rawA", "B"}, policy)
	require.NoError(t, err)
	assert.Equal(t, []Prediction{{Disease: "Sano", Probability: 0.55, RawClass: "Sano"}}, preds)
}

func TestTranslateAndFilter_HealthyFloor(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.65, 0.3, 0.05}, []string{"Sano", "rawA", "B"}, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, []Prediction{
		{Disease: "A", Probability: 0.3, RawClass: "rawA"},
		{Disease: "B", Probability: 0.05, RawClass: "B"},
	}, preds)
}

func TestTranslateAndFilter_HealthyFloorIsStrict(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.7, 0.3}, []string{"Sano", "B"}, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, diseases(preds))
}

func TestTranslateAndFilter_ConfidentHealthyCollapses(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.1, 0.75, 0.15}, []string{"rawA", "Sano", "B"}, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sano"}, diseases(preds))
}

func TestTranslateAndFilter_DominanceIsStrict(t *testing.T) {
	policy := testPolicy()
	policy.HealthyMinConfidence = 0
	preds, err := TranslateAndFilter([]float64{0.5, 0.3, 0.2}, []string{"Sano", "rawA", "B"}, policy)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sano", "A", "B"}, diseases(preds))
}

func TestTranslateAndFilter_HealthyNotOnTop(t *testing.T) {
	policy := testPolicy()
	policy.HealthyMinConfidence = 0
	preds, err := TranslateAndFilter([]float64{0.3, 0.6, 0.1}, []string{"Sano", "rawA", "B"}, policy)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Sano", "B"}, diseases(preds))
}

func TestTranslateAndFilter_DropsUnlisted(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.4, 0.35, 0.25}, []string{"Viruela", "rawA", "Taladro"}, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, diseases(preds))
}

func TestTranslateAndFilter_NoSignal(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.6, 0.4}, []string{"Viruela", "Sano"}, testPolicy())
	require.NoError(t, err)
	assert.NotNil(t, preds)
	assert.Empty(t, preds)
}

func TestTranslateAndFilter_TiesKeepIndexOrder(t *testing.T) {
	preds, err := TranslateAndFilter([]float64{0.4, 0.4, 0.2}, []string{"B", "rawA", "Sano"}, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, diseases(preds))
}

func TestTranslateAndFilter_LengthMismatch(t *testing.T) {
	_, err := TranslateAndFilter([]float64{0.5, 0.5}, []string{"A"}, testPolicy())
	require.Error(t, err)

	var lm *LengthMismatchError
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, 2, lm.Probabilities)
	assert.Equal(t, 1, lm.Classes)
}

func TestTranslateAndFilter_DefaultPolicy(t *testing.T) {
	// Agalla, Arañuela, Mochedumbre, Mosca, Oidio, Pulgones, Sano, Taladro, Viruela
	probs := []float64{0.05, 0.05, 0.30, 0.05, 0.20, 0.10, 0.10, 0.10, 0.05}
	preds, err := TranslateAndFilter(probs, DefaultRawClasses, DefaultFilterPolicy())
	require.NoError(t, err)
	assert.Equal(t, []Prediction{
		{Disease: "Monilia", Probability: 0.30, RawClass: "Mochedumbre"},
		{Disease: "Oídio", Probability: 0.20, RawClass: "Oidio"},
		{Disease: "Áfidos", Probability: 0.10, RawClass: "Pulgones"},
		{Disease: "Cancro bacteriano", Probability: 0.10, RawClass: "Taladro"},
	}, preds)
}

func TestDefaultFilterPolicy_ReturnsFreshMaps(t *testing.T) {
	p := DefaultFilterPolicy()
	p.Allowlist["Viruela"] = true
	p.Equivalences["Viruela"] = "x"

	q := DefaultFilterPolicy()
	assert.False(t, q.Allowlist["Viruela"])
	_, ok := q.Equivalences["Viruela"]
	assert.False(t, ok)
}
