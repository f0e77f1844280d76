package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/careerpath/internal/assessment"
)

const systemPrompt = `You are a career counseling expert writing one multiple-choice question for a career interest assessment.

Rules:
- Write a single, specific, scenario-based question about the given focus area in the context of the learner's dominant interest.
- Provide exactly 4 options. Each option is a distinct scenario or approach, not a rewording of another.
- Give every option a category from: technology, creative, analytical, education, business. Most options should use the dominant interest; one may point to a different interest.
- Match vocabulary and complexity to the learner's education level and the question stage.
- Use plain text. No numbering, no markdown.
- The question must be completely different in wording and topic from every question in the "already asked" list.`

// promptInput is everything the user message is built from.
type promptInput struct {
	Input    assessment.GenerateInput
	Dominant assessment.Category
	Facet    string
	Prior    []string
}

// Stage describes how specific a generated question at index should be.
func Stage(index int) string {
	switch {
	case index < 5:
		return "foundational"
	case index < 10:
		return "intermediate"
	case index < 15:
		return "advanced"
	default:
		return "highly specialized"
	}
}

// buildUserMessage constructs the user message from the prompt input and
// Config limits.
func buildUserMessage(in promptInput, cfg Config) string {
	t := in.Input.Tally

	var b strings.Builder

	level := t.Profile.EducationLevel
	if level == "" {
		level = "unspecified"
	}
	fmt.Fprintf(&b, "Education level: %s (%s)\n", level, t.Profile.EducationLevel.Context())
	fmt.Fprintf(&b, "Dominant interest: %s\n", in.Dominant)
	fmt.Fprintf(&b, "Knowledge level: %s (scored %d/%d on basic tech questions)\n",
		assessment.KnowledgeLabel(t.Knowledge), t.Knowledge, assessment.KnowledgeCount)
	fmt.Fprintf(&b, "Interest trends: %s\n", buildTrends(t.Interest))
	fmt.Fprintf(&b, "Question number: %d of %d\n", in.Input.Position+1, assessment.TotalQuestions)
	fmt.Fprintf(&b, "Stage: %s\n", Stage(in.Input.Index))
	fmt.Fprintf(&b, "Focus area: %s\n", humanFacet(in.Facet))

	b.WriteString("\nRecent choices by this learner:\n")
	b.WriteString(buildRecentChoices(t.Answers, cfg.MaxRecentAnswers))

	b.WriteString("\n\nAlready asked in this session:\n")
	b.WriteString(buildDedup(in.Prior, cfg.MaxPriorQuestions))

	fmt.Fprintf(&b, "\n\nWrite a new question about %s that differs from every question above.", humanFacet(in.Facet))

	return b.String()
}

// buildTrends lists the top three interests with their tallies.
func buildTrends(scores assessment.InterestScores) string {
	ranked := scores.Ranked()
	if len(ranked) == 0 {
		return "None yet"
	}
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	parts := make([]string, len(ranked))
	for i, c := range ranked {
		parts[i] = fmt.Sprintf("%s (%d)", c, scores[c])
	}
	return strings.Join(parts, ", ")
}

// buildRecentChoices formats the latest chosen options, respecting max.
func buildRecentChoices(answers []assessment.Answer, max int) string {
	if len(answers) == 0 {
		return "None"
	}
	if max > 0 && len(answers) > max {
		answers = answers[len(answers)-max:]
	}

	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "- %s -> %s\n", a.QuestionText, a.Option.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "None" if there are no prior questions.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
