package classifier

import (
	"fmt"
	"sort"
)

// Filter defaults.
const (
	DefaultHealthyMinConfidence = 0.7
	DefaultDominanceThreshold   = 0.5
	DefaultHealthyLabel         = "Sano"
)

// DefaultRawClasses are the model output classes, in output order.
var DefaultRawClasses = []string{
	"Agalla de corona",
	"Arañuela roja",
	"Mochedumbre",
	"Mosca de la fruta",
	"Oidio",
	"Pulgones",
	"Sano",
	"Taladro",
	"Viruela",
}

// defaultEquivalences maps model class names to knowledge-base disease names.
var defaultEquivalences = map[string]string{
	"Mochedumbre": "Monilia",
	"Pulgones":    "Áfidos",
	"Taladro":     "Cancro bacteriano",
	"Oidio":       "Oídio",
}

var defaultAllowlist = []string{
	"Oídio",
	"Áfidos",
	"Cancro bacteriano",
	"Monilia",
	"Deficiencia nutricional",
	"Sano",
}

// Prediction is one classifier output kept after filtering.
type Prediction struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
	RawClass    string  `json:"raw_class"`
}

// FilterPolicy controls how raw model outputs become predictions.
type FilterPolicy struct {
	Equivalences         map[string]string // Raw class → canonical disease name
	Allowlist            map[string]bool   // Canonical names worth reporting
	HealthyLabel         string
	HealthyMinConfidence float64 // Healthy kept only above this
	DominanceThreshold   float64 // Healthy on top above this hides everything else
}

// DefaultFilterPolicy returns the policy for the bundled peach model.
func DefaultFilterPolicy() FilterPolicy {
	eq := make(map[string]string, len(defaultEquivalences))
	for k, v := range defaultEquivalences {
		eq[k] = v
	}
	allow := make(map[string]bool, len(defaultAllowlist))
	for _, name := range defaultAllowlist {
		allow[name] = true
	}
	return FilterPolicy{
		Equivalences:         eq,
		Allowlist:            allow,
		HealthyLabel:         DefaultHealthyLabel,
		HealthyMinConfidence: DefaultHealthyMinConfidence,
		DominanceThreshold:   DefaultDominanceThreshold,
	}
}

// LengthMismatchError reports a probability vector that does not line up
// with the class-name list.
type LengthMismatchError struct {
	Probabilities int
	Classes       int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("classifier output has %d probabilities for %d classes", e.Probabilities, e.Classes)
}

// TranslateAndFilter maps raw classes to canonical names, keeps the
// allowlisted ones and sorts them by descending probability. The healthy
// label is dropped unless it clears HealthyMinConfidence, and when it
// ranks first above DominanceThreshold it is returned alone. An empty
// result means no relevant signal.
func TranslateAndFilter(probs []float64, rawNames []string, policy FilterPolicy) ([]Prediction, error) {
	if len(probs) != len(rawNames) {
		return nil, &LengthMismatchError{Probabilities: len(probs), Classes: len(rawNames)}
	}

	preds := []Prediction{}
	for i, p := range probs {
		raw := rawNames[i]
		name := raw
		if canonical, ok := policy.Equivalences[raw]; ok {
			name = canonical
		}
		if !policy.Allowlist[name] {
			continue
		}
		if name == policy.HealthyLabel && p <= policy.HealthyMinConfidence {
			continue
		}
		preds = append(preds, Prediction{Disease: name, Probability: p, RawClass: raw})
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})

	if len(preds) > 0 && preds[0].Disease == policy.HealthyLabel && preds[0].Probability > policy.DominanceThreshold {
		return preds[:1], nil
	}
	return preds, nil
}
