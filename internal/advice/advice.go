// Package advice turns ranked diagnoses into management recommendations.
package advice

import (
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
)

// Urgency grades how soon the grower should act.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Source says where a Plan's summary came from.
type Source string

const (
	SourceStatic Source = "static"
	SourceLLM    Source = "llm"
)

// SymptomTreatment is the catalogue treatment for one observed symptom.
type SymptomTreatment struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Treatment string `json:"treatment"`
}

// Item is the advice for one diagnosed disease.
type Item struct {
	RuleID         string             `json:"rule_id"`
	Disease        string             `json:"disease"`
	Label          inference.Label    `json:"label"`
	Recommendation string             `json:"recommendation"`
	Treatments     []SymptomTreatment `json:"treatments"`
}

// Plan is the full advice for one diagnosis.
type Plan struct {
	Items    []Item   `json:"items"`
	Summary  string   `json:"summary,omitempty"`
	Actions  []string `json:"actions,omitempty"`
	Urgency  Urgency  `json:"urgency"`
	Source   Source   `json:"source"`
	LLMError string   `json:"llm_error,omitempty"`
}

// Static builds advice from the catalogue alone: the disease recommendation
// plus the treatment of each matched symptom, for every ranked result.
func Static(ranked []inference.RuleScore, risk inference.Risk, cat *catalogue.Catalogue) *Plan {
	plan := &Plan{
		Items:   make([]Item, 0, len(ranked)),
		Urgency: urgencyFor(ranked, risk),
		Source:  SourceStatic,
	}

	for _, s := range ranked {
		item := Item{
			RuleID:     s.RuleID,
			Disease:    s.Disease,
			Label:      s.Label,
			Treatments: []SymptomTreatment{},
		}
		if d, ok := cat.Disease(s.Disease); ok {
			item.Recommendation = d.Recommendation
		}
		for _, key := range s.MatchedSymptoms {
			info, ok := cat.Symptom(key)
			if !ok || info.Treatment == "" {
				continue
			}
			item.Treatments = append(item.Treatments, SymptomTreatment{Key: key, Label: info.Label, Treatment: info.Treatment})
		}
		plan.Items = append(plan.Items, item)
	}
	return plan
}

// urgencyFor is high with any confirmed disease or high risk, medium with
// a suspicion or medium risk, low otherwise.
func urgencyFor(ranked []inference.RuleScore, risk inference.Risk) Urgency {
	urgency := UrgencyLow
	switch risk.Level {
	case inference.RiskHigh:
		return UrgencyHigh
	case inference.RiskMedium:
		urgency = UrgencyMedium
	}
	for _, s := range ranked {
		switch s.Label {
		case inference.LabelConfirmed:
			return UrgencyHigh
		case inference.LabelSuspected:
			urgency = UrgencyMedium
		}
	}
	return urgency
}
