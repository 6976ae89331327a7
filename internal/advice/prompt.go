package advice

import (
	"fmt"
	"strings"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
)

const systemPrompt = `You are an agronomist advising small peach growers. You receive the output of a symptom checklist and must produce a short, practical management plan. Prefer cultural and low-toxicity measures, mention when a specialist should be consulted, and never invent symptoms that were not reported. Write the summary and actions in Spanish.`

func buildUserMessage(ranked []inference.RuleScore, risk inference.Risk, static *Plan, cat *catalogue.Catalogue) string {
	var b strings.Builder

	b.WriteString("Checklist results:\n")
	for _, s := range ranked {
		labels := make([]string, len(s.MatchedSymptoms))
		for i, k := range s.MatchedSymptoms {
			labels[i] = cat.SymptomLabel(k)
		}
		fmt.Fprintf(&b, "- %s: %.1f%% (%s); observed: %s\n", s.Disease, s.Percent(), s.Label, strings.Join(labels, ", "))
	}

	fmt.Fprintf(&b, "\nEnvironmental risk: %s (%.0f%%)\n", risk.Level, risk.Score*100)

	b.WriteString("\nReference recommendations:\n")
	for _, item := range static.Items {
		if item.Recommendation != "" {
			fmt.Fprintf(&b, "- %s: %s\n", item.Disease, item.Recommendation)
		}
		for _, t := range item.Treatments {
			fmt.Fprintf(&b, "  - %s: %s\n", t.Label, t.Treatment)
		}
	}

	b.WriteString(`
Instructions:
1. Summarize the situation in two or three sentences.
2. List at most five actions, most urgent first.
3. Set urgency to high when any disease is confirmed or the environmental risk is high.`)

	return b.String()
}
