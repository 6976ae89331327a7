package catalogue

import (
	"fmt"
	"strings"
)

// Catalogue is an immutable knowledge base: the ordered rule list plus the
// symptom and disease descriptions shown alongside results. A Catalogue is
// safe to share between goroutines; accessors return copies.
type Catalogue struct {
	version  string
	rules    []Rule
	symptoms []SymptomInfo
	diseases []DiseaseInfo

	symptomIndex map[string]int
	diseaseIndex map[string]int
}

// Document is the serialized form of a Catalogue, used by file loading and
// the knowledge-base store.
type Document struct {
	Version  string        `json:"version" yaml:"version"`
	Rules    []Rule        `json:"rules" yaml:"rules"`
	Symptoms []SymptomInfo `json:"symptoms" yaml:"symptoms"`
	Diseases []DiseaseInfo `json:"diseases" yaml:"diseases"`
}

// defaultCatalogue is built once from the seed data.
var defaultCatalogue *Catalogue

func init() {
	c, err := New(Document{
		Version:  SeedVersion,
		Rules:    seedRules,
		Symptoms: seedSymptoms,
		Diseases: seedDiseases,
	})
	if err != nil {
		panic(fmt.Sprintf("catalogue: invalid seed data: %v", err))
	}
	defaultCatalogue = c
}

// Default returns the built-in catalogue.
func Default() *Catalogue {
	return defaultCatalogue
}

// New validates doc and builds a Catalogue from a deep copy of it.
func New(doc Document) (*Catalogue, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	c := &Catalogue{
		version:      doc.Version,
		rules:        copyRules(doc.Rules),
		symptoms:     append([]SymptomInfo(nil), doc.Symptoms...),
		diseases:     append([]DiseaseInfo(nil), doc.Diseases...),
		symptomIndex: make(map[string]int, len(doc.Symptoms)),
		diseaseIndex: make(map[string]int, len(doc.Diseases)),
	}
	for i, s := range c.symptoms {
		c.symptomIndex[s.Key] = i
	}
	for i, d := range c.diseases {
		c.diseaseIndex[d.Name] = i
	}
	return c, nil
}

// Version returns the catalogue's semantic version.
func (c *Catalogue) Version() string {
	return c.version
}

// Rules returns the rules in catalogue order.
func (c *Catalogue) Rules() []Rule {
	return copyRules(c.rules)
}

// Rule looks up a rule by ID (case-insensitive).
func (c *Catalogue) Rule(id string) (Rule, bool) {
	for _, r := range c.rules {
		if strings.EqualFold(r.ID, id) {
			return copyRules([]Rule{r})[0], true
		}
	}
	return Rule{}, false
}

// Symptoms returns every symptom description in display order.
func (c *Catalogue) Symptoms() []SymptomInfo {
	out := make([]SymptomInfo, len(c.symptoms))
	copy(out, c.symptoms)
	return out
}

// Symptom returns the description of a symptom key.
func (c *Catalogue) Symptom(key string) (SymptomInfo, bool) {
	i, ok := c.symptomIndex[key]
	if !ok {
		return SymptomInfo{}, false
	}
	return c.symptoms[i], true
}

// SymptomLabel returns the human label for key, or the key with
// underscores replaced when no description exists.
func (c *Catalogue) SymptomLabel(key string) string {
	if s, ok := c.Symptom(key); ok && s.Label != "" {
		return s.Label
	}
	return strings.ReplaceAll(key, "_", " ")
}

// Diseases returns the disease descriptions.
func (c *Catalogue) Diseases() []DiseaseInfo {
	out := make([]DiseaseInfo, len(c.diseases))
	copy(out, c.diseases)
	return out
}

// Disease returns the description for a disease name.
func (c *Catalogue) Disease(name string) (DiseaseInfo, bool) {
	i, ok := c.diseaseIndex[name]
	if !ok {
		return DiseaseInfo{}, false
	}
	return c.diseases[i], true
}

// DiseaseNames returns the distinct disease names of the rules, in rule order.
func (c *Catalogue) DiseaseNames() []string {
	seen := make(map[string]bool, len(c.rules))
	var names []string
	for _, r := range c.rules {
		if !seen[r.Disease] {
			seen[r.Disease] = true
			names = append(names, r.Disease)
		}
	}
	return names
}

// Document returns the serializable form of the catalogue.
func (c *Catalogue) Document() Document {
	return Document{
		Version:  c.version,
		Rules:    c.Rules(),
		Symptoms: c.Symptoms(),
		Diseases: c.Diseases(),
	}
}

func copyRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r
		out[i].Symptoms = append([]WeightedSymptom(nil), r.Symptoms...)
	}
	return out
}
