package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/llm"
	"github.com/huertalab/durazno/internal/store"
)

// loadCatalogue resolves the rule catalogue: --catalogue, then
// DURAZNO_CATALOGUE, then the one saved in the database, then the seed.
func (c *cli) loadCatalogue(cmd *cobra.Command) (*catalogue.Catalogue, error) {
	path, _ := cmd.Flags().GetString("catalogue")
	if path == "" {
		path = c.cfg.Catalogue
	}
	if path != "" {
		cat, err := catalogue.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load catalogue: %w", err)
		}
		return cat, nil
	}

	dsn, err := c.resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if !storeExists(dsn) {
		return catalogue.Default(), nil
	}

	st, err := store.Open(dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not open database, using built-in catalogue:", err)
		return catalogue.Default(), nil
	}
	defer st.Close()

	stored, err := st.KnowledgeBaseRepo().Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load stored catalogue: %w", err)
	}
	if stored == nil {
		return catalogue.Default(), nil
	}
	c.logger.Debug("using stored catalogue", "version", stored.Version())
	return stored, nil
}

// newAdvisor wires the configured LLM provider, if any, into an Advisor.
// LLM request events go to repo when it is not nil. Without a provider the
// advisor returns catalogue advice only.
func (c *cli) newAdvisor(ctx context.Context, cat *catalogue.Catalogue, repo store.EventRepo) *advice.Advisor {
	cfg, ok := llm.Resolve()
	if !ok {
		return advice.NewAdvisor(nil, cat, c.logger)
	}
	provider, err := llm.NewProvider(ctx, cfg, repo, c.logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Using catalogue advice only.")
		return advice.NewAdvisor(nil, cat, c.logger)
	}
	return advice.NewAdvisor(provider, cat, c.logger)
}

// llmConfigured reports whether an LLM provider can be built from the environment.
func llmConfigured() bool {
	_, ok := llm.Resolve()
	return ok
}

// newLoader returns the lazy classifier for manifestFlag, falling back to
// DURAZNO_MODEL_MANIFEST and DURAZNO_MODEL_ENDPOINT.
func (c *cli) newLoader(manifestFlag string) *classifier.Loader {
	manifest := manifestFlag
	if manifest == "" {
		manifest = c.cfg.Model.Manifest
	}
	client := &http.Client{Timeout: c.cfg.Model.Timeout}
	return classifier.NewLoader(classifier.RemoteOpener(manifest, c.cfg.Model.Endpoint, c.cfg.FilterPolicy(), client))
}

// observationsFrom merges --symptom keys with an optional observations file.
// The file holds either a map of key to bool or a list of present keys,
// in YAML or JSON.
func observationsFrom(symptoms []string, file string) (inference.Observations, error) {
	obs := inference.ObservationsFrom(symptoms...)
	if file == "" {
		return obs, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}

	var m map[string]bool
	if err := yaml.Unmarshal(data, &m); err == nil {
		for k, v := range m {
			obs[k] = obs[k] || v
		}
		return obs, nil
	}

	var keys []string
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse observations %s: expected a map or a list of symptom keys", file)
	}
	for _, k := range keys {
		obs[strings.TrimSpace(k)] = true
	}
	return obs, nil
}

// warnUnknown prints observed keys the catalogue does not describe. They
// are still passed through and simply never match.
func warnUnknown(cat *catalogue.Catalogue, obs inference.Observations) {
	known := make(map[string]bool)
	for _, r := range cat.Rules() {
		for _, ws := range r.Symptoms {
			known[ws.Key] = true
		}
	}
	for _, s := range cat.Symptoms() {
		known[s.Key] = true
	}

	var unknown []string
	for _, k := range obs.Present() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		fmt.Fprintln(os.Stderr, "Unknown symptoms ignored:", strings.Join(unknown, ", "))
	}
}
