package questiongen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// selectFacet picks the facet for a generated slot. Facets already used are
// skipped while any remain; once all are used a hybrid name is synthesized
// from a reused facet and a random suffix so the topic set keeps growing.
func selectFacet(facets []string, used *TopicSet, index int, suffix func() string) string {
	var available []string
	for _, f := range facets {
		if !used.Has(f) {
			available = append(available, f)
		}
	}
	if len(available) > 0 {
		return available[index%len(available)]
	}
	if len(facets) == 0 {
		return "hybrid_general_" + suffix()
	}
	return fmt.Sprintf("hybrid_%s_%s", facets[index%len(facets)], suffix())
}

// baseFacet strips the hybrid decoration so catalog lookups still hit.
func baseFacet(facet string) string {
	if !strings.HasPrefix(facet, "hybrid_") {
		return facet
	}
	rest := strings.TrimPrefix(facet, "hybrid_")
	if i := strings.LastIndex(rest, "_"); i > 0 {
		return rest[:i]
	}
	return rest
}

// humanFacet renders a facet tag for prompts, e.g. "work_environment" as
// "work environment".
func humanFacet(facet string) string {
	return strings.ReplaceAll(baseFacet(facet), "_", " ")
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
