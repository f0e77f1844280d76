package questiongen

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/careerpath/internal/assessment"
)

const careerQuestionJSON = `{
	"question": "You're offered three design roles with different settings. Which appeals most?",
	"options": [
		{"text": "A small agency with rotating clients", "category": "creative"},
		{"text": "An in-house brand team", "category": "creative"},
		{"text": "Freelancing with full creative freedom", "category": "Creative"},
		{"text": "A product analytics team", "category": "alternative"}
	]
}`

func TestParseOutput_Object(t *testing.T) {
	out, err := parseOutput(json.RawMessage(careerQuestionJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(out.Options))
	}
	if out.Options[3].Category != "alternative" {
		t.Errorf("category should be kept raw until normalization, got %q", out.Options[3].Category)
	}
}

func TestParseOutput_FencedString(t *testing.T) {
	text := "```json\n" + careerQuestionJSON + "\n```"
	raw, _ := json.Marshal(text)

	out, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Question == "" {
		t.Error("expected question text")
	}
}

func TestParseOutput_Array(t *testing.T) {
	out, err := parseOutput(json.RawMessage("[" + careerQuestionJSON + "]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Options) != 4 {
		t.Errorf("options = %d, want 4", len(out.Options))
	}
}

func TestParseOutput_ProseAroundObject(t *testing.T) {
	text := "Here is your question:\n" + careerQuestionJSON + "\nGood luck!"
	raw, _ := json.Marshal(text)

	if _, err := parseOutput(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOutput_LegacyText(t *testing.T) {
	text := `Question 1: Which kind of study group suits you?
A) Peer tutoring sessions
B) Online forums
C) Lecture reviews
D) Solo practice
Category: Education`
	raw, _ := json.Marshal(text)

	out, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Question != "Which kind of study group suits you?" {
		t.Errorf("question = %q", out.Question)
	}
	if len(out.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(out.Options))
	}
	if out.Options[1].Text != "Online forums" {
		t.Errorf("option[1] = %q", out.Options[1].Text)
	}
	for _, o := range out.Options {
		if o.Category != "education" {
			t.Errorf("category = %q, want education", o.Category)
		}
	}
}

func TestParseOutput_Garbage(t *testing.T) {
	raw, _ := json.Marshal("I cannot help with that.")
	if _, err := parseOutput(raw); err == nil {
		t.Fatal("expected error for unparseable output")
	}
}

func TestNormalizeCategory(t *testing.T) {
	dominant := assessment.CategoryAnalytical
	tests := map[string]assessment.Category{
		"business":    assessment.CategoryBusiness,
		" Creative ":  assessment.CategoryCreative,
		"alternative": dominant,
		"":            dominant,
	}
	for in, want := range tests {
		if got := normalizeCategory(in, dominant); got != want {
			t.Errorf("normalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptionsValidator(t *testing.T) {
	v := &OptionsValidator{}
	opts := func(texts ...string) []assessment.Option {
		var out []assessment.Option
		for _, s := range texts {
			out = append(out, assessment.Option{Text: s, Category: assessment.CategoryBusiness})
		}
		return out
	}

	tests := []struct {
		name    string
		options []assessment.Option
		wantErr bool
	}{
		{"four distinct", opts("a", "b", "c", "d"), false},
		{"three options", opts("a", "b", "c"), true},
		{"empty option", opts("a", "b", " ", "d"), true},
		{"repeated option", opts("a", "b", "B!", "d"), true},
		{"unknown category", append(opts("a", "b", "c"), assessment.Option{Text: "d", Category: "other"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&assessment.Question{Text: "Q?", Options: tt.options}, assessment.GenerateInput{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
