package questiongen

import "github.com/abhisek/careerpath/internal/llm"

// QuestionSchema defines the JSON schema for generated career questions.
// Categories are free strings; unknown labels are mapped to the dominant
// interest after parsing.
var QuestionSchema = &llm.Schema{
	Name:        "career-question",
	Description: "A single multiple-choice career interest question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "A scenario-based question shown to the learner, in plain text",
			},
			"options": map[string]any{
				"type":        "array",
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 answer options",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The option shown to the learner",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "The interest this option signals: technology, creative, analytical, education, or business",
						},
					},
					"required":             []any{"text", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"question", "options"},
		"additionalProperties": false,
	},
}
