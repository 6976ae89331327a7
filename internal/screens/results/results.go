// Package results shows the outcome of a checklist diagnosis.
package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/router"
	"github.com/huertalab/durazno/internal/screen"
	"github.com/huertalab/durazno/internal/ui/components"
	"github.com/huertalab/durazno/internal/ui/layout"
	"github.com/huertalab/durazno/internal/ui/theme"
)

type adviceLoadedMsg struct {
	Plan *advice.Plan
}

// ResultsScreen renders one bar per rule, the environmental risk and advice.
type ResultsScreen struct {
	cat     *catalogue.Catalogue
	advisor *advice.Advisor
	restart func() screen.Screen

	scores []inference.RuleScore
	ranked []inference.RuleScore
	risk   inference.Risk
	plan   *advice.Plan
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New diagnoses obs. With a nil advisor the static advice is shown at
// once; otherwise advice is requested from Init. restart builds the
// screen used for a new diagnosis.
func New(cat *catalogue.Catalogue, obs inference.Observations, advisor *advice.Advisor, restart func() screen.Screen) *ResultsScreen {
	scores, _ := inference.Infer(obs, cat.Rules())
	s := &ResultsScreen{
		cat:     cat,
		advisor: advisor,
		restart: restart,
		scores:  scores,
		ranked:  inference.Rank(scores),
		risk:    inference.AssessRisk(obs),
	}
	if advisor == nil {
		s.plan = advice.Static(s.ranked, s.risk, cat)
	}
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.plan != nil {
		return nil
	}
	advisor, ranked, risk := s.advisor, s.ranked, s.risk
	return func() tea.Msg {
		return adviceLoadedMsg{Plan: advisor.Advise(context.Background(), ranked, risk)}
	}
}

func (s *ResultsScreen) Title() string {
	return "Resultados"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Volver"},
		{Key: "N", Description: "Nuevo diagnóstico"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

// Scores returns every rule score in catalogue order.
func (s *ResultsScreen) Scores() []inference.RuleScore {
	return s.scores
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceLoadedMsg:
		s.plan = msg.Plan
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "n", "N":
			if s.restart != nil {
				next := s.restart()
				return s, func() tea.Msg { return router.ResetMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	barWidth := min(width-6, 90)
	for _, sc := range s.scores {
		label := fmt.Sprintf("%-3s %s %-24s", sc.RuleID, sc.Icon, sc.Disease)
		bar := components.NewScoreBar(label, sc.Score, theme.LabelColor(sc.Label), barWidth).View()
		tag := lipgloss.NewStyle().Foreground(theme.LabelColor(sc.Label)).Bold(true).Render(sc.Label.Display())
		b.WriteString("  " + bar + "  " + tag + "\n")
		if len(sc.MatchedSymptoms) > 0 {
			b.WriteString("      " + theme.Hint.Render(strings.Join(s.labels(sc.MatchedSymptoms), ", ")) + "\n")
		}
	}

	riskStyle := lipgloss.NewStyle().Foreground(theme.RiskColor(s.risk.Level)).Bold(true)
	b.WriteString("\n  Riesgo ambiental: " + riskStyle.Render(fmt.Sprintf("%s (%.0f%%)", s.risk.Level.Display(), s.risk.Score*100)) + "\n")
	if len(s.risk.Factors) > 0 {
		b.WriteString("      " + theme.Hint.Render(strings.Join(s.labels(s.risk.Factors), ", ")) + "\n")
	}

	b.WriteString("\n")
	switch {
	case s.plan == nil:
		b.WriteString(theme.Hint.Render("  Consultando recomendaciones...") + "\n")
	case len(s.ranked) == 0:
		b.WriteString(theme.Hint.Render("  Ningún síntoma coincide con las reglas. Revise las observaciones.") + "\n")
	default:
		b.WriteString(s.adviceView())
	}
	return b.String()
}

func (s *ResultsScreen) adviceView() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("  Recomendaciones") + "\n")
	if s.plan.Summary != "" {
		b.WriteString("  " + theme.Body.Render(s.plan.Summary) + "\n")
	}
	for _, a := range s.plan.Actions {
		b.WriteString("  - " + a + "\n")
	}
	for _, item := range s.plan.Items {
		if item.Label == inference.LabelNotDetected {
			continue
		}
		b.WriteString("  " + theme.Selected.Render(item.Disease) + ": " + item.Recommendation + "\n")
	}
	return b.String()
}

func (s *ResultsScreen) labels(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.cat.SymptomLabel(k)
	}
	return out
}
