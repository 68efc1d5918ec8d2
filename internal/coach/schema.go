package coach

import "github.com/abhisek/studyplan/internal/llm"

// AdviceSchema defines the JSON schema for coaching advice.
var AdviceSchema = &llm.Schema{
	Name:        "study-advice",
	Description: "Short coaching notes on a student's backlog recovery plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentence overview of where the student stands",
			},
			"focus_tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    5,
				"description": "1-5 concrete actions for this week (8-20 words each)",
			},
			"warning": map[string]any{
				"type":        "string",
				"description": "One sentence about the biggest risk, or empty string if none",
			},
		},
		"required":             []any{"summary", "focus_tips", "warning"},
		"additionalProperties": false,
	},
}
