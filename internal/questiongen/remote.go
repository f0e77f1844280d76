package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/llm"
)

// PurposeQuestion labels LLM calls made to generate assessment questions.
const PurposeQuestion = "question-gen"

// RemoteError is a failed remote generation: transport error, timeout,
// unparseable output, or a question rejected by a validator. It is always
// recovered by the fallback catalog.
type RemoteError struct {
	Stage string // "call", "parse", or "validate"
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote generation (%s): %v", e.Stage, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// remoteGenerator asks an LLM provider for one question.
type remoteGenerator struct {
	provider llm.Provider
	config   Config
}

// questionOutput is the raw LLM response before normalization.
type questionOutput struct {
	Question string         `json:"question"`
	Options  []optionOutput `json:"options"`
}

type optionOutput struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func (g *remoteGenerator) generate(ctx context.Context, in promptInput) (*assessment.Question, error) {
	ctx = llm.WithPurpose(ctx, PurposeQuestion)
	if g.config.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RemoteTimeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &llm.ErrTimeout{After: g.config.RemoteTimeout, Err: err}
		}
		return nil, &RemoteError{Stage: "call", Err: err}
	}

	raw, err := parseOutput(resp.Content)
	if err != nil {
		return nil, &RemoteError{Stage: "parse", Err: err}
	}

	q := &assessment.Question{
		ID:     assessment.InterestCount + assessment.KnowledgeCount + in.Input.Index + 1,
		Text:   strings.TrimSpace(raw.Question),
		Origin: assessment.OriginGenerated,
		Facet:  in.Facet,
		Source: SourceRemote,
	}
	for _, o := range raw.Options {
		q.Options = append(q.Options, assessment.Option{
			Text:     strings.TrimSpace(o.Text),
			Category: normalizeCategory(o.Category, in.Dominant),
		})
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, in.Input); verr != nil {
			return nil, &RemoteError{Stage: "validate", Err: verr}
		}
	}
	return q, nil
}

// normalizeCategory maps a declared label to a known category, defaulting to
// the dominant interest when the label has no natural mapping.
func normalizeCategory(label string, dominant assessment.Category) assessment.Category {
	if c, ok := assessment.ParseCategory(label); ok {
		return c
	}
	return dominant
}

var codeFence = regexp.MustCompile("```(?:json)?")

// parseOutput decodes the provider output. Structured providers hand back
// the JSON object directly; plain-text providers return a JSON string that
// may wrap the object in code fences, hold an array, or use the older
// "Question N: ... A) ... Category: x" layout.
func parseOutput(content json.RawMessage) (*questionOutput, error) {
	if out, ok := decodeQuestionJSON(content); ok {
		return out, nil
	}

	text := string(content)
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		text = s
	}
	text = strings.TrimSpace(codeFence.ReplaceAllString(text, ""))

	if out, ok := decodeQuestionJSON([]byte(text)); ok {
		return out, nil
	}
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		if out, ok := decodeQuestionJSON([]byte(text[i : j+1])); ok {
			return out, nil
		}
	}
	if out, ok := parseLegacyText(text); ok {
		return out, nil
	}
	return nil, fmt.Errorf("no question found in response")
}

func decodeQuestionJSON(data []byte) (*questionOutput, bool) {
	var out questionOutput
	if err := json.Unmarshal(data, &out); err == nil && out.Question != "" {
		return &out, true
	}
	var list []questionOutput
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 && list[0].Question != "" {
		return &list[0], true
	}
	return nil, false
}

var (
	legacyHeader = regexp.MustCompile(`Question \d+:`)
	legacyOption = regexp.MustCompile(`^[A-D]\)`)
)

// parseLegacyText reads the first question block of the numbered text layout.
// Every option takes the block's Category line, if any.
func parseLegacyText(text string) (*questionOutput, bool) {
	blocks := legacyHeader.Split(text, -1)
	if len(blocks) < 2 {
		return nil, false
	}

	var lines []string
	for _, l := range strings.Split(blocks[1], "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 5 {
		return nil, false
	}

	out := &questionOutput{Question: lines[0]}
	category := ""
	for _, l := range lines[1:] {
		switch {
		case legacyOption.MatchString(l):
			out.Options = append(out.Options, optionOutput{Text: strings.TrimSpace(l[2:])})
		case strings.HasPrefix(l, "Category:"):
			category = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(l, "Category:")))
		}
	}
	if len(out.Options) != optionsPerItem {
		return nil, false
	}
	for i := range out.Options {
		out.Options[i].Category = category
	}
	return out, true
}
