package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func optionsSchema() *Schema {
	return &Schema{
		Name:        "test-options",
		Description: "three options",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 3,
					"maxItems": 3,
				},
			},
			"required":             []any{"options"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: `{"options":["a","b","c"]}`},
		{name: "too few items", raw: `{"options":["a","b"]}`, wantErr: true},
		{name: "too many items", raw: `{"options":["a","b","c","d"]}`, wantErr: true},
		{name: "wrong item type", raw: `{"options":["a",2,"c"]}`, wantErr: true},
		{name: "missing property", raw: `{}`, wantErr: true},
		{name: "extra property", raw: `{"options":["a","b","c"],"x":1}`, wantErr: true},
		{name: "not json", raw: `options: a, b, c`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateResponse(optionsSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}
