// Package report renders diagnoses for people: plain text for the
// terminal, Markdown for sharing and HTML for the browser.
package report

import (
	"fmt"
	"strings"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/compare"
	"github.com/huertalab/durazno/internal/inference"
)

// Diagnosis gathers everything a report can show. Only Results is required.
type Diagnosis struct {
	Results []inference.RuleScore // ranked, or every score when listing all rules
	Risk    *inference.Risk
	Advice  *advice.Plan

	// Image is true when a photo was classified, even if Predictions is empty.
	Image       bool
	Predictions []classifier.Prediction
	Outcome     compare.Outcome
}

// Text renders d for a terminal.
func Text(d Diagnosis, cat *catalogue.Catalogue) string {
	var b strings.Builder

	heading(&b, "Diagnóstico por síntomas")
	if len(d.Results) == 0 {
		b.WriteString("  No se detectaron enfermedades con los síntomas indicados.\n")
	}
	for _, s := range d.Results {
		fmt.Fprintf(&b, "  %-3s %s %-24s %6.1f%%  %s\n", s.RuleID, s.Icon, s.Disease, s.Percent(), s.Label.Display())
		if len(s.MatchedSymptoms) > 0 {
			fmt.Fprintf(&b, "      %s\n", strings.Join(labels(s.MatchedSymptoms, cat), ", "))
		}
	}

	if d.Risk != nil {
		fmt.Fprintf(&b, "\n  Riesgo ambiental: %s (%.0f%%)\n", d.Risk.Level.Display(), d.Risk.Score*100)
		if len(d.Risk.Factors) > 0 {
			fmt.Fprintf(&b, "      %s\n", strings.Join(labels(d.Risk.Factors, cat), ", "))
		}
	}

	if d.Image {
		b.WriteString("\n")
		heading(&b, "Diagnóstico por imagen")
		if len(d.Predictions) == 0 {
			b.WriteString("  Sin señal relevante en la imagen.\n")
		}
		for _, p := range d.Predictions {
			fmt.Fprintf(&b, "  %-28s %6.1f%%\n", p.Disease, p.Probability*100)
		}
	}

	if d.Outcome != "" {
		fmt.Fprintf(&b, "\n  %s\n", d.Outcome.Message())
	}

	if d.Advice != nil {
		b.WriteString("\n")
		heading(&b, "Recomendaciones")
		if d.Advice.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", d.Advice.Summary)
		}
		for _, a := range d.Advice.Actions {
			fmt.Fprintf(&b, "  - %s\n", a)
		}
		for _, item := range d.Advice.Items {
			fmt.Fprintf(&b, "  %s: %s\n", item.Disease, item.Recommendation)
			for _, tr := range item.Treatments {
				fmt.Fprintf(&b, "      %s: %s\n", tr.Label, tr.Treatment)
			}
		}
		fmt.Fprintf(&b, "  Urgencia: %s\n", urgencyDisplay(d.Advice.Urgency))
	}
	return b.String()
}

func heading(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("─", 40))
}

func labels(keys []string, cat *catalogue.Catalogue) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = cat.SymptomLabel(k)
	}
	return out
}

func urgencyDisplay(u advice.Urgency) string {
	switch u {
	case advice.UrgencyHigh:
		return "Alta"
	case advice.UrgencyMedium:
		return "Media"
	default:
		return "Baja"
	}
}
