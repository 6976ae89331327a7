package catalogue

// WeightedSymptom is one symptom of a rule together with its weight.
type WeightedSymptom struct {
	Key    string  `json:"key" yaml:"key"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Rule associates a disease with an ordered, weighted set of symptoms.
type Rule struct {
	ID       string            `json:"id" yaml:"id"`
	Disease  string            `json:"disease" yaml:"disease"`
	Symptoms []WeightedSymptom `json:"symptoms" yaml:"symptoms"`
	Icon     string            `json:"icon" yaml:"icon"`
}

// TotalWeight returns the sum of all symptom weights in the rule.
func (r Rule) TotalWeight() float64 {
	var total float64
	for _, s := range r.Symptoms {
		total += s.Weight
	}
	return total
}

// HasSymptom reports whether key is part of the rule.
func (r Rule) HasSymptom(key string) bool {
	for _, s := range r.Symptoms {
		if s.Key == key {
			return true
		}
	}
	return false
}

// SymptomInfo describes an observable sign shown on the checklist.
type SymptomInfo struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Treatment   string `json:"treatment,omitempty" yaml:"treatment,omitempty"`
}

// DiseaseInfo holds the management recommendation for a disease.
type DiseaseInfo struct {
	Name           string `json:"name" yaml:"name"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}
