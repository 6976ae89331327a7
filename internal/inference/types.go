package inference

import "slices"

// Observations maps symptom keys to presence. Absent keys count as not observed.
type Observations map[string]bool

// Present returns the observed symptom keys whose value is true, sorted.
func (o Observations) Present() []string {
	var keys []string
	for k, v := range o {
		if v {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// ObservationsFrom builds Observations from a list of present symptom keys.
func ObservationsFrom(keys ...string) Observations {
	obs := make(Observations, len(keys))
	for _, k := range keys {
		obs[k] = true
	}
	return obs
}

// Label is the qualitative verdict derived from a rule score.
type Label string

const (
	LabelConfirmed   Label = "confirmed"
	LabelSuspected   Label = "suspected"
	LabelNotDetected Label = "not_detected"
)

// Display returns the label as shown to growers.
func (l Label) Display() string {
	switch l {
	case LabelConfirmed:
		return "Confirmado"
	case LabelSuspected:
		return "Sospecha"
	default:
		return "No detectado"
	}
}

// RuleScore is the evaluation of one rule against a set of observations.
type RuleScore struct {
	RuleID          string   `json:"rule_id"`
	Disease         string   `json:"disease"`
	Icon            string   `json:"icon,omitempty"`
	Score           float64  `json:"score"` // 0.0–1.0
	Label           Label    `json:"label"`
	MatchedSymptoms []string `json:"matched_symptoms"` // Rule order
}

// Percent returns the score as a percentage.
func (s RuleScore) Percent() float64 {
	return s.Score * 100
}
