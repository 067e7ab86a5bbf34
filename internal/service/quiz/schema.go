package quiz

import "github.com/heartmarshall/wordclass/internal/adapter/provider/llm"

const (
	distractorCount = 3
	tenseOptions    = 4
)

var distractorSchema = &llm.Schema{
	Name:        "word-distractors",
	Description: "Plausible but incorrect answer options for a vocabulary card",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": distractorCount,
				"maxItems": distractorCount,
			},
		},
		"required":             []any{"options"},
		"additionalProperties": false,
	},
}

var tenseQuizSchema = &llm.Schema{
	Name:        "tense-quiz",
	Description: "Multiple choice questions practising one English tense",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"questionText": map[string]any{"type": "string", "minLength": 1},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string", "minLength": 1},
							"minItems": tenseOptions,
							"maxItems": tenseOptions,
						},
						"correctOption": map[string]any{"type": "string", "minLength": 1},
					},
					"required":             []any{"questionText", "options", "correctOption"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type distractorPayload struct {
	Options []string `json:"options"`
}

type tenseQuizPayload struct {
	Questions []struct {
		QuestionText  string   `json:"questionText"`
		Options       []string `json:"options"`
		CorrectOption string   `json:"correctOption"`
	} `json:"questions"`
}
