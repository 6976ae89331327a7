package advice

import "github.com/huertalab/durazno/internal/llm"

// AdviceSchema is the structured output requested from the LLM.
var AdviceSchema = &llm.Schema{
	Name:        "treatment-advice",
	Description: "Short management plan for a peach orchard diagnosis",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences in Spanish explaining the situation to the grower",
			},
			"actions": map[string]any{
				"type":        "array",
				"description": "Concrete steps in order of priority, in Spanish",
				"items":       map[string]any{"type": "string"},
			},
			"urgency": map[string]any{
				"type": "string",
				"enum": []any{"low", "medium", "high"},
			},
		},
		"required":             []any{"summary", "actions", "urgency"},
		"additionalProperties": false,
	},
}
