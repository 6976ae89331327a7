package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/huertalab/durazno/internal/catalogue"
)

// DefaultTitle heads Markdown and HTML reports.
const DefaultTitle = "Informe de diagnóstico"

// Markdown renders d as a Markdown document.
func Markdown(d Diagnosis, cat *catalogue.Catalogue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", DefaultTitle)

	b.WriteString("## Diagnóstico por síntomas\n\n")
	if len(d.Results) == 0 {
		b.WriteString("No se detectaron enfermedades con los síntomas indicados.\n\n")
	} else {
		b.WriteString("| Regla | Enfermedad | Coincidencia | Resultado | Síntomas |\n")
		b.WriteString("|---|---|---:|---|---|\n")
		for _, s := range d.Results {
			fmt.Fprintf(&b, "| %s | %s %s | %.1f%% | %s | %s |\n",
				s.RuleID, s.Icon, s.Disease, s.Percent(), s.Label.Display(),
				strings.Join(labels(s.MatchedSymptoms, cat), ", "))
		}
		b.WriteString("\n")
	}

	if d.Risk != nil {
		fmt.Fprintf(&b, "**Riesgo ambiental:** %s (%.0f%%)\n\n", d.Risk.Level.Display(), d.Risk.Score*100)
		for _, f := range labels(d.Risk.Factors, cat) {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		if len(d.Risk.Factors) > 0 {
			b.WriteString("\n")
		}
	}

	if d.Image {
		b.WriteString("## Diagnóstico por imagen\n\n")
		if len(d.Predictions) == 0 {
			b.WriteString("Sin señal relevante en la imagen.\n\n")
		} else {
			b.WriteString("| Enfermedad | Probabilidad |\n|---|---:|\n")
			for _, p := range d.Predictions {
				fmt.Fprintf(&b, "| %s | %.1f%% |\n", p.Disease, p.Probability*100)
			}
			b.WriteString("\n")
		}
	}

	if d.Outcome != "" {
		fmt.Fprintf(&b, "> %s\n\n", d.Outcome.Message())
	}

	if d.Advice != nil {
		b.WriteString("## Recomendaciones\n\n")
		if d.Advice.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", d.Advice.Summary)
		}
		for _, a := range d.Advice.Actions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		if len(d.Advice.Actions) > 0 {
			b.WriteString("\n")
		}
		for _, item := range d.Advice.Items {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", item.Disease, item.Recommendation)
			for _, tr := range item.Treatments {
				fmt.Fprintf(&b, "- **%s:** %s\n", tr.Label, tr.Treatment)
			}
			if len(item.Treatments) > 0 {
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(&b, "**Urgencia:** %s\n", urgencyDisplay(d.Advice.Urgency))
	}
	return b.String()
}

// HTML converts a Markdown report into a complete HTML page.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Title: DefaultTitle,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML([]byte(md), p, r)
}
