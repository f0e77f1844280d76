package assessment

import (
	"sort"
	"strings"
)

// InterestScores tallies interest-origin and generated-origin answers by
// category. The sum of all tallies equals the number of such answers.
type InterestScores map[Category]int

// Add increments the tally for c by one.
func (s InterestScores) Add(c Category) {
	s[c]++
}

// Total returns the sum of all tallies.
func (s InterestScores) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (s InterestScores) Clone() InterestScores {
	out := make(InterestScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Ranked returns the categories with a non-zero tally, highest first, using
// the same ordering rule as Dominant for ties.
func (s InterestScores) Ranked() []Category {
	out := make([]Category, 0, len(s))
	for c, v := range s {
		if v > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if s[out[i]] != s[out[j]] {
			return s[out[i]] > s[out[j]]
		}
		return categoryLess(out[i], out[j])
	})
	return out
}

// Dominant returns the category with the highest tally.
//
// Ties go to the category that appears first in Categories. Labels outside
// the enumeration rank after every known category, alphabetically. An empty
// or all-zero map yields CategoryTechnology. The generator and the result
// compiler both call this so they always agree within a session.
func Dominant(s InterestScores) Category {
	best := CategoryTechnology
	bestScore := 0
	found := false
	for c, v := range s {
		if v <= 0 {
			continue
		}
		if !found || v > bestScore || (v == bestScore && categoryLess(c, best)) {
			best, bestScore, found = c, v, true
		}
	}
	return best
}

// categoryLess orders known categories by enumeration position, then
// unknown labels alphabetically.
func categoryLess(a, b Category) bool {
	ra, rb := categoryRank(a), categoryRank(b)
	switch {
	case ra >= 0 && rb >= 0:
		return ra < rb
	case ra >= 0:
		return true
	case rb >= 0:
		return false
	default:
		return a < b
	}
}

func categoryRank(c Category) int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KnowledgeLabel describes a knowledge score out of five.
func KnowledgeLabel(score int) string {
	switch {
	case score >= 4:
		return "Advanced - Strong technical foundation"
	case score >= 3:
		return "Intermediate - Good basic understanding"
	case score >= 2:
		return "Beginner - Some exposure to concepts"
	default:
		return "Novice - New to technical concepts"
	}
}
