// Package survey runs the symptom rules over a batch of surveyed plants
// and summarises the outcome per disease.
package survey

import (
	"github.com/montanaflynn/stats"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
)

// PlantResult is the diagnosis of one surveyed plant.
type PlantResult struct {
	Plant  string                `json:"plant"`
	Scores []inference.RuleScore `json:"scores"` // catalogue order
	Ranked []inference.RuleScore `json:"ranked"`
	Risk   inference.Risk        `json:"risk"`
}

// Top returns the best ranked result, if any rule matched.
func (p PlantResult) Top() (inference.RuleScore, bool) {
	if len(p.Ranked) == 0 {
		return inference.RuleScore{}, false
	}
	return p.Ranked[0], true
}

// DiseaseSummary aggregates one rule across all plants.
type DiseaseSummary struct {
	RuleID    string  `json:"rule_id"`
	Disease   string  `json:"disease"`
	Confirmed int     `json:"confirmed"`
	Suspected int     `json:"suspected"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std_dev"`
}

// Run diagnoses every row against the catalogue rules.
func Run(rows []Row, cat *catalogue.Catalogue) []PlantResult {
	rules := cat.Rules()
	out := make([]PlantResult, 0, len(rows))
	for _, row := range rows {
		scores, _ := inference.Infer(row.Observations, rules)
		out = append(out, PlantResult{
			Plant:  row.Plant,
			Scores: scores,
			Ranked: inference.Rank(scores),
			Risk:   inference.AssessRisk(row.Observations),
		})
	}
	return out
}

// Summarize returns one entry per catalogue rule, in catalogue order.
// Statistics are over every plant's score for that rule, zeros included.
func Summarize(results []PlantResult, cat *catalogue.Catalogue) []DiseaseSummary {
	rules := cat.Rules()
	out := make([]DiseaseSummary, len(rules))
	for i, r := range rules {
		sum := DiseaseSummary{RuleID: r.ID, Disease: r.Disease}
		scores := make(stats.Float64Data, 0, len(results))
		for _, p := range results {
			for _, s := range p.Scores {
				if s.RuleID != r.ID {
					continue
				}
				scores = append(scores, s.Score)
				switch s.Label {
				case inference.LabelConfirmed:
					sum.Confirmed++
				case inference.LabelSuspected:
					sum.Suspected++
				}
			}
		}
		if len(scores) > 0 {
			sum.Mean, _ = scores.Mean()
			sum.Median, _ = scores.Median()
			sum.StdDev, _ = scores.StandardDeviation()
		}
		out[i] = sum
	}
	return out
}
