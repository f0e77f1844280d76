package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// choiceSchema is a small multiple-choice shape with a closed category set.
func choiceSchema() *Schema {
	return &Schema{
		Name:        "test-choice",
		Description: "A multiple-choice prompt",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"position": map[string]any{"type": "integer", "minimum": 15, "maximum": 34},
				"category": map[string]any{"type": "string", "enum": []any{"technology", "creative", "business"}},
			},
			"required": []any{"question", "position"},
		},
	}
}

func requireInvalid(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", `{"question":"Which project appeals most?","position":15,"category":"creative"}`, false},
		{"without optional category", `{"question":"Which team would you join?","position":34}`, false},
		{"missing position", `{"question":"Which role fits you?"}`, true},
		{"position as text", `{"question":"Which role fits you?","position":"sixteen"}`, true},
		{"position out of range", `{"question":"Which role fits you?","position":3}`, true},
		{"category outside enum", `{"question":"Which role fits you?","position":20,"category":"astronomy"}`, true},
		{"malformed", `{question: nope}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(choiceSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			requireInvalid(t, err)
		})
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	if err := ValidateResponse(choiceSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := ValidateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_OptionArray(t *testing.T) {
	schema := &Schema{
		Name:        "test-options",
		Description: "Question with a fixed option count",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"options": map[string]any{
					"type":     "array",
					"minItems": 4,
					"maxItems": 4,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"text": map[string]any{"type": "string"},
						},
						"required": []any{"text"},
					},
				},
			},
			"required": []any{"options"},
		},
	}

	valid := json.RawMessage(`{"options":[{"text":"a"},{"text":"b"},{"text":"c"},{"text":"d"}]}`)
	if err := ValidateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	requireInvalid(t, ValidateResponse(schema, json.RawMessage(`{"options":[{"text":"a"},{"text":"b"},{"text":"c"}]}`)))
	requireInvalid(t, ValidateResponse(schema, json.RawMessage(`{"options":[{"text":"a"},{"text":"b"},{"text":"c"},{"label":"d"}]}`)))
}
