package inference

import (
	"fmt"
	"sort"

	"github.com/huertalab/durazno/internal/catalogue"
)

// Label thresholds. Lower bounds are inclusive.
const (
	ConfirmedThreshold = 0.7
	SuspectedThreshold = 0.4
)

// LabelFor maps a score to its label.
func LabelFor(score float64) Label {
	switch {
	case score >= ConfirmedThreshold:
		return LabelConfirmed
	case score >= SuspectedThreshold:
		return LabelSuspected
	default:
		return LabelNotDetected
	}
}

// Infer evaluates every rule against obs. Results and trace lines follow
// the rule order; nothing is filtered or sorted. A rule whose weights sum
// to zero scores 0.
func Infer(obs Observations, rules []catalogue.Rule) ([]RuleScore, []string) {
	scores := make([]RuleScore, 0, len(rules))
	trace := make([]string, 0, len(rules))

	for _, r := range rules {
		s := Evaluate(obs, r)
		scores = append(scores, s)
		trace = append(trace, traceLine(s))
	}
	return scores, trace
}

// Evaluate scores a single rule.
func Evaluate(obs Observations, r catalogue.Rule) RuleScore {
	var total, matchedWeight float64
	matched := []string{}
	for _, s := range r.Symptoms {
		total += s.Weight
		if obs[s.Key] {
			matchedWeight += s.Weight
			matched = append(matched, s.Key)
		}
	}

	var score float64
	if total > 0 {
		score = matchedWeight / total
	}

	return RuleScore{
		RuleID:          r.ID,
		Disease:         r.Disease,
		Icon:            r.Icon,
		Score:           score,
		Label:           LabelFor(score),
		MatchedSymptoms: matched,
	}
}

func traceLine(s RuleScore) string {
	return fmt.Sprintf("Regla %s (%s): %.1f%% síntomas presentes → Diagnóstico: %s",
		s.RuleID, s.Disease, s.Percent(), s.Label.Display())
}

// Rank drops zero scores and orders the rest by descending score. Ties
// keep their input order. The input slice is not modified.
func Rank(scores []RuleScore) []RuleScore {
	ranked := make([]RuleScore, 0, len(scores))
	for _, s := range scores {
		if s.Score > 0 {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Top returns the first highest-scoring result. Reports false for empty input.
func Top(scores []RuleScore) (RuleScore, bool) {
	if len(scores) == 0 {
		return RuleScore{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best, true
}
