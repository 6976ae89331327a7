package catalogue

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalogue document major version this build reads.
const SupportedMajor = "v1"

// CatalogueError describes every structural problem found in a document.
type CatalogueError struct {
	Problems []string
}

func (e *CatalogueError) Error() string {
	return fmt.Sprintf("invalid catalogue: %s", strings.Join(e.Problems, "; "))
}

// Validate performs the structural checks on a catalogue document.
// Returns a *CatalogueError listing all problems, or nil if valid.
func Validate(doc Document) error {
	var errs []string

	if !semver.IsValid(doc.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version", doc.Version))
	} else if semver.Major(doc.Version) != SupportedMajor {
		errs = append(errs, fmt.Sprintf("version %s is not supported (want %s.x.y)", doc.Version, SupportedMajor))
	}

	if len(doc.Rules) == 0 {
		errs = append(errs, "no rules defined")
	}

	ruleIDs := make(map[string]bool, len(doc.Rules))
	for _, r := range doc.Rules {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("rule for %q has no ID", r.Disease))
		} else if ruleIDs[r.ID] {
			errs = append(errs, fmt.Sprintf("duplicate rule ID: %q", r.ID))
		}
		ruleIDs[r.ID] = true

		if r.Disease == "" {
			errs = append(errs, fmt.Sprintf("rule %q has no disease", r.ID))
		}
		if len(r.Symptoms) == 0 {
			errs = append(errs, fmt.Sprintf("rule %q has no symptoms", r.ID))
		}

		keys := make(map[string]bool, len(r.Symptoms))
		for _, s := range r.Symptoms {
			if s.Key == "" {
				errs = append(errs, fmt.Sprintf("rule %q has a symptom without key", r.ID))
				continue
			}
			if keys[s.Key] {
				errs = append(errs, fmt.Sprintf("rule %q lists symptom %q twice", r.ID, s.Key))
			}
			keys[s.Key] = true
			if s.Weight <= 0 || s.Weight > 1 {
				errs = append(errs, fmt.Sprintf("rule %q symptom %q weight %g outside (0,1]", r.ID, s.Key, s.Weight))
			}
		}
	}

	symptomKeys := make(map[string]bool, len(doc.Symptoms))
	for _, s := range doc.Symptoms {
		if symptomKeys[s.Key] {
			errs = append(errs, fmt.Sprintf("duplicate symptom key: %q", s.Key))
		}
		symptomKeys[s.Key] = true
	}

	// Descriptions are optional, but when present they must cover every
	// symptom a rule references.
	if len(doc.Symptoms) > 0 {
		for _, r := range doc.Rules {
			for _, s := range r.Symptoms {
				if s.Key != "" && !symptomKeys[s.Key] {
					errs = append(errs, fmt.Sprintf("rule %q references undescribed symptom %q", r.ID, s.Key))
				}
			}
		}
	}

	diseaseNames := make(map[string]bool, len(doc.Diseases))
	for _, d := range doc.Diseases {
		if diseaseNames[d.Name] {
			errs = append(errs, fmt.Sprintf("duplicate disease: %q", d.Name))
		}
		diseaseNames[d.Name] = true
	}

	if len(errs) > 0 {
		return &CatalogueError{Problems: errs}
	}
	return nil
}
