package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/careerpath/internal/assessment"
)

// Question sources recorded on generated questions.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// fallbackQuestion builds a question from the local catalog. Up to
// MaxFallbackAttempts facets are tried, each shifted one step further along
// the cycle; if every candidate is a duplicate the last one is made unique
// with a question-number suffix.
func (d *Dynamic) fallbackQuestion(input assessment.GenerateInput, dominant assessment.Category) *assessment.Question {
	attempts := max(d.config.MaxFallbackAttempts, 1)
	n := input.Position + 1

	var q *assessment.Question
	for attempt := 0; attempt < attempts; attempt++ {
		facet := selectFacet(d.facets, d.topics, input.Index+attempt, d.suffix)
		q = d.fromCatalog(dominant, facet, input)
		if !d.history.IsDuplicate(q.Text) {
			return q
		}
		d.logger.Debug("fallback candidate rejected as duplicate",
			zapPosition(input.Position), zapFacet(facet), zapAttempt(attempt))
	}

	q.Text = d.forceUnique(q.Text, n)
	return q
}

// fromCatalog returns the authored entry for (interest, facet), or the
// generic template when none exists.
func (d *Dynamic) fromCatalog(interest assessment.Category, facet string, input assessment.GenerateInput) *assessment.Question {
	entry, ok := d.catalog.Fallback(interest, baseFacet(facet))
	if !ok {
		entry = d.catalog.Template(interest, input.Position+1)
	}

	q := &assessment.Question{
		ID:     input.Position + 1,
		Text:   entry.Question,
		Origin: assessment.OriginGenerated,
		Facet:  facet,
		Source: SourceFallback,
	}
	for _, text := range entry.Options {
		q.Options = append(q.Options, assessment.Option{Text: text, Category: interest})
	}
	return q
}

// forceUnique appends a question-number suffix so the text cannot equal any
// accepted text.
func (d *Dynamic) forceUnique(text string, n int) string {
	suffix := fmt.Sprintf(" (Question %d)", n)
	candidate := text
	if !strings.HasSuffix(text, suffix) {
		candidate = text + suffix
	}
	for k := 2; d.history.Contains(candidate); k++ {
		candidate = fmt.Sprintf("%s (Question %d, variant %d)", text, n, k)
	}
	return candidate
}
