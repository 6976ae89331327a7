package store

import (
	"context"
	"fmt"
	"strings"
)

// schema lists the tables in creation order. {{ID}} is replaced with the
// dialect's auto-increment key column.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS kb_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS kb_rules (
		id TEXT PRIMARY KEY,
		ord INTEGER NOT NULL,
		disease TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS kb_rule_symptoms (
		rule_id TEXT NOT NULL REFERENCES kb_rules(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		symptom_key TEXT NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (rule_id, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS kb_symptoms (
		symptom_key TEXT PRIMARY KEY,
		ord INTEGER NOT NULL,
		label TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		treatment TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS kb_diseases (
		name TEXT PRIMARY KEY,
		ord INTEGER NOT NULL,
		recommendation TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		{{ID}},
		created_at BIGINT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms BIGINT NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
}

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{ID}}", idColumn)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
