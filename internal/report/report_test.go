package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/compare"
	"github.com/huertalab/durazno/internal/inference"
)

func cancroDiagnosis() Diagnosis {
	cat := catalogue.Default()
	obs := inference.ObservationsFrom("ramas_secas", "corteza_rajada", "hongos_visibles")
	scores, _ := inference.Infer(obs, cat.Rules())
	ranked := inference.Rank(scores)
	risk := inference.AssessRisk(obs)
	return Diagnosis{
		Results: ranked,
		Risk:    &risk,
		Advice:  advice.Static(ranked, risk, cat),
	}
}

func TestText(t *testing.T) {
	out := Text(cancroDiagnosis(), catalogue.Default())

	assert.Contains(t, out, "Cancro bacteriano")
	assert.Contains(t, out, "62.5%")
	assert.Contains(t, out, "Sospecha")
	assert.Contains(t, out, "Corteza agrietada o exudados")
	assert.Contains(t, out, "Riesgo ambiental: Medio (60%)")
	assert.Contains(t, out, "Oxicloruro de Cobre")
	assert.Contains(t, out, "Urgencia: Media")
	assert.NotContains(t, out, "Diagnóstico por imagen")
}

func TestText_Empty(t *testing.T) {
	out := Text(Diagnosis{}, catalogue.Default())
	assert.Contains(t, out, "No se detectaron enfermedades")
	assert.NotContains(t, out, "Riesgo ambiental")
}

func TestText_ImageWithoutSignal(t *testing.T) {
	out := Text(Diagnosis{Image: true, Outcome: compare.OutcomeImageNoSignal}, catalogue.Default())
	assert.Contains(t, out, "Sin señal relevante")
	assert.Contains(t, out, compare.OutcomeImageNoSignal.Message())
}

func TestMarkdown(t *testing.T) {
	d := cancroDiagnosis()
	d.Image = true
	d.Predictions = []classifier.Prediction{{Disease: "Cancro bacteriano", Probability: 0.8, RawClass: "Taladro"}}
	d.Outcome = compare.OutcomeAgree

	md := Markdown(d, catalogue.Default())

	assert.True(t, strings.HasPrefix(md, "# "+DefaultTitle))
	assert.Contains(t, md, "| R3 | 🦠 Cancro bacteriano | 62.5% | Sospecha |")
	assert.Contains(t, md, "| Cancro bacteriano | 80.0% |")
	assert.Contains(t, md, "> "+compare.OutcomeAgree.Message())
	assert.Contains(t, md, "### Cancro bacteriano")
	assert.Contains(t, md, "**Urgencia:** Media")
}

func TestHTML(t *testing.T) {
	page := string(HTML(Markdown(cancroDiagnosis(), catalogue.Default())))

	require.Contains(t, page, "<html")
	assert.Contains(t, page, "<title>"+DefaultTitle+"</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<h2")
	assert.Contains(t, page, "Cancro bacteriano")
}
