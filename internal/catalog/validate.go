package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/careerpath/internal/assessment"
)

// MalformedEntryError reports a defect in catalog content. It is never a
// runtime condition to recover from; the content must be fixed.
type MalformedEntryError struct {
	File   string
	Path   string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("catalog %s: %s: %s", e.File, e.Path, e.Reason)
}

// Validate checks every structural rule the engine relies on and returns all
// problems joined, or nil.
func (c *Catalog) Validate() error {
	var errs []error
	add := func(file, path, format string, args ...any) {
		errs = append(errs, &MalformedEntryError{File: file, Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	if len(c.interest) != assessment.InterestCount {
		add(banksFile, "interest", "has %d questions, want %d", len(c.interest), assessment.InterestCount)
	}
	for i, q := range c.interest {
		path := fmt.Sprintf("interest[%d]", i)
		if strings.TrimSpace(q.Text) == "" {
			add(banksFile, path, "empty question text")
		}
		if len(q.Options) != len(assessment.Categories) {
			add(banksFile, path, "has %d options, want one per category (%d)", len(q.Options), len(assessment.Categories))
		}
		seen := make(map[assessment.Category]bool)
		for j, o := range q.Options {
			if !o.Category.Valid() {
				add(banksFile, fmt.Sprintf("%s.options[%d]", path, j), "unknown category %q", o.Category)
				continue
			}
			if seen[o.Category] {
				add(banksFile, fmt.Sprintf("%s.options[%d]", path, j), "duplicate category %q", o.Category)
			}
			seen[o.Category] = true
		}
	}

	if len(c.knowledge) != assessment.KnowledgeCount {
		add(banksFile, "knowledge", "has %d questions, want %d", len(c.knowledge), assessment.KnowledgeCount)
	}
	for i, q := range c.knowledge {
		path := fmt.Sprintf("knowledge[%d]", i)
		if strings.TrimSpace(q.Text) == "" {
			add(banksFile, path, "empty question text")
		}
		if len(q.Options) != 4 {
			add(banksFile, path, "has %d options, want 4", len(q.Options))
		}
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			add(banksFile, path, "has %d correct options, want exactly 1", correct)
		}
	}

	if len(c.facets) == 0 {
		add(fallbackFile, "facets", "no facets defined")
	}
	facetSet := make(map[string]bool, len(c.facets))
	for i, f := range c.facets {
		if facetSet[f] {
			add(fallbackFile, fmt.Sprintf("facets[%d]", i), "duplicate facet %q", f)
		}
		facetSet[f] = true
	}
	if !strings.Contains(c.template.Question, "{interest}") {
		add(fallbackFile, "template.question", "missing {interest} placeholder")
	}
	if len(c.template.Options) != 4 {
		add(fallbackFile, "template.options", "has %d options, want 4", len(c.template.Options))
	}
	for cat, entries := range c.fallback {
		if !cat.Valid() {
			add(fallbackFile, "questions."+string(cat), "unknown category")
		}
		for facet, e := range entries {
			path := fmt.Sprintf("questions.%s.%s", cat, facet)
			if !facetSet[facet] {
				add(fallbackFile, path, "facet is not in the facet list")
			}
			if strings.TrimSpace(e.Question) == "" {
				add(fallbackFile, path, "empty question text")
			}
			if len(e.Options) != 4 {
				add(fallbackFile, path, "has %d options, want 4", len(e.Options))
			}
		}
	}

	for _, cat := range assessment.Categories {
		r, ok := c.recommendations[cat]
		path := "recommendations." + string(cat)
		if !ok {
			add(recommendationsFile, path, "missing")
			continue
		}
		if r.Title == "" || r.SuggestedRole == "" {
			add(recommendationsFile, path, "title and suggested_role are required")
		}
		if len(r.Careers) == 0 {
			add(recommendationsFile, path, "no careers listed")
		}
		for i, cert := range r.Certifications {
			if cert.Name == "" || cert.Link == "" {
				add(recommendationsFile, fmt.Sprintf("%s.certifications[%d]", path, i), "name and link are required")
			}
		}
	}

	return errors.Join(errs...)
}
