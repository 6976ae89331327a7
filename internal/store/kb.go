package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/huertalab/durazno/internal/catalogue"
)

type knowledgeBaseRepo struct {
	db *sqlx.DB
}

type ruleRow struct {
	ID      string `db:"id"`
	Disease string `db:"disease"`
	Icon    string `db:"icon"`
}

type ruleSymptomRow struct {
	RuleID string  `db:"rule_id"`
	Key    string  `db:"symptom_key"`
	Weight float64 `db:"weight"`
}

type symptomRow struct {
	Key         string `db:"symptom_key"`
	Label       string `db:"label"`
	Description string `db:"description"`
	Treatment   string `db:"treatment"`
}

type diseaseRow struct {
	Name           string `db:"name"`
	Recommendation string `db:"recommendation"`
}

func (r *knowledgeBaseRepo) Save(ctx context.Context, c *catalogue.Catalogue) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"kb_rule_symptoms", "kb_rules", "kb_symptoms", "kb_diseases", "kb_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}

	if err := exec(`INSERT INTO kb_meta (id, version, updated_at) VALUES (1, ?, ?)`,
		c.Version(), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("save version: %w", err)
	}

	for i, rule := range c.Rules() {
		if err := exec(`INSERT INTO kb_rules (id, ord, disease, icon) VALUES (?, ?, ?, ?)`,
			rule.ID, i, rule.Disease, rule.Icon); err != nil {
			return fmt.Errorf("save rule %s: %w", rule.ID, err)
		}
		for j, s := range rule.Symptoms {
			if err := exec(`INSERT INTO kb_rule_symptoms (rule_id, ord, symptom_key, weight) VALUES (?, ?, ?, ?)`,
				rule.ID, j, s.Key, s.Weight); err != nil {
				return fmt.Errorf("save rule %s symptom %s: %w", rule.ID, s.Key, err)
			}
		}
	}

	for i, s := range c.Symptoms() {
		if err := exec(`INSERT INTO kb_symptoms (symptom_key, ord, label, description, treatment) VALUES (?, ?, ?, ?, ?)`,
			s.Key, i, s.Label, s.Description, s.Treatment); err != nil {
			return fmt.Errorf("save symptom %s: %w", s.Key, err)
		}
	}

	for i, d := range c.Diseases() {
		if err := exec(`INSERT INTO kb_diseases (name, ord, recommendation) VALUES (?, ?, ?)`,
			d.Name, i, d.Recommendation); err != nil {
			return fmt.Errorf("save disease %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *knowledgeBaseRepo) Load(ctx context.Context) (*catalogue.Catalogue, error) {
	var version string
	err := r.db.GetContext(ctx, &version, `SELECT version FROM kb_meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}

	var rules []ruleRow
	if err := r.db.SelectContext(ctx, &rules, `SELECT id, disease, icon FROM kb_rules ORDER BY ord`); err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	var ruleSymptoms []ruleSymptomRow
	if err := r.db.SelectContext(ctx, &ruleSymptoms,
		`SELECT rule_id, symptom_key, weight FROM kb_rule_symptoms ORDER BY rule_id, ord`); err != nil {
		return nil, fmt.Errorf("load rule symptoms: %w", err)
	}

	var symptoms []symptomRow
	if err := r.db.SelectContext(ctx, &symptoms,
		`SELECT symptom_key, label, description, treatment FROM kb_symptoms ORDER BY ord`); err != nil {
		return nil, fmt.Errorf("load symptoms: %w", err)
	}

	var diseases []diseaseRow
	if err := r.db.SelectContext(ctx, &diseases,
		`SELECT name, recommendation FROM kb_diseases ORDER BY ord`); err != nil {
		return nil, fmt.Errorf("load diseases: %w", err)
	}

	bySymptomRule := make(map[string][]catalogue.WeightedSymptom, len(rules))
	for _, rs := range ruleSymptoms {
		bySymptomRule[rs.RuleID] = append(bySymptomRule[rs.RuleID], catalogue.WeightedSymptom{Key: rs.Key, Weight: rs.Weight})
	}

	doc := catalogue.Document{Version: version}
	for _, row := range rules {
		doc.Rules = append(doc.Rules, catalogue.Rule{
			ID:       row.ID,
			Disease:  row.Disease,
			Icon:     row.Icon,
			Symptoms: bySymptomRule[row.ID],
		})
	}
	for _, row := range symptoms {
		doc.Symptoms = append(doc.Symptoms, catalogue.SymptomInfo(row))
	}
	for _, row := range diseases {
		doc.Diseases = append(doc.Diseases, catalogue.DiseaseInfo(row))
	}

	c, err := catalogue.New(doc)
	if err != nil {
		return nil, fmt.Errorf("stored catalogue: %w", err)
	}
	return c, nil
}
