package questiongen

import (
	"strings"

	"github.com/abhisek/careerpath/internal/assessment"
)

const (
	maxQuestionLen = 300
	maxOptionLen   = 160
	optionsPerItem = 4
)

// StructuralValidator checks that the question text is present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *assessment.Question, _ assessment.GenerateInput) *ValidationError {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if len(text) > maxQuestionLen {
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 300 characters"}
	}
	return nil
}

// OptionsValidator checks that there are exactly four distinct, non-empty
// options, each declaring a known category.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *assessment.Question, _ assessment.GenerateInput) *ValidationError {
	if len(q.Options) != optionsPerItem {
		return &ValidationError{Validator: v.Name(), Message: "expected exactly 4 options"}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			return &ValidationError{Validator: v.Name(), Message: "option text is empty"}
		}
		if len(text) > maxOptionLen {
			return &ValidationError{Validator: v.Name(), Message: "option exceeds 160 characters"}
		}
		key := Normalize(text)
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: "options are not distinct"}
		}
		seen[key] = true
		if !o.Category.Valid() {
			return &ValidationError{Validator: v.Name(), Message: "option category " + string(o.Category) + " is not a known interest"}
		}
	}
	return nil
}
