package questiongen

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords are question-framing words that carry no topical meaning.
var stopwords = map[string]bool{
	"what": true, "which": true, "how": true, "would": true, "prefer": true,
	"most": true, "best": true, "like": true, "want": true, "you": true,
	"your": true, "the": true, "and": true, "or": true, "but": true,
	"with": true, "for": true, "are": true, "is": true, "do": true, "does": true,
}

const (
	// maxSharedShingles is the number of shared 2-/3-word phrases a
	// candidate may have with one history entry before it is a duplicate.
	maxSharedShingles = 2

	// maxWordOverlap is the fraction of significant words a candidate may
	// fuzzy-share with one history entry before it is a duplicate.
	maxWordOverlap = 0.5
)

// Normalize lower-cases s, strips punctuation, and collapses whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Hash returns an order-insensitive fingerprint of s built from its words
// longer than three characters.
func Hash(s string) string {
	var words []string
	for _, w := range strings.Fields(Normalize(s)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return strings.Join(words, "")
}

// shingles returns the 2- and 3-word phrases of words. Pairs need both
// words longer than two characters; triples need the last one to be.
func shingles(words []string) []string {
	var out []string
	for i := 0; i < len(words)-1; i++ {
		if len(words[i]) > 2 && len(words[i+1]) > 2 {
			out = append(out, words[i]+" "+words[i+1])
		}
		if i < len(words)-2 && len(words[i+2]) > 2 {
			out = append(out, words[i]+" "+words[i+1]+" "+words[i+2])
		}
	}
	return out
}

func significantWords(words []string) []string {
	var out []string
	for _, w := range words {
		if len(w) > 3 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// fuzzyMatch reports whether two words are close enough to count as the
// same topic word: containment either way, or a shared 4-letter prefix
// when both are longer than four letters.
func fuzzyMatch(word, existing string) bool {
	if strings.Contains(existing, word) || strings.Contains(word, existing) {
		return true
	}
	return len(word) > 4 && len(existing) > 4 && word[:4] == existing[:4]
}

// IsNearDuplicate reports whether candidate is too close to any entry of
// history.
//
// An entry matches when the normalized texts are equal, when more than two
// of the candidate's phrase shingles appear verbatim in it, or when more than
// half of the candidate's significant words fuzzy-match its words. Entry
// words of three letters or fewer are ignored for the word test so that
// short words like "in" do not match everything.
func IsNearDuplicate(candidate string, history []string) bool {
	norm := Normalize(candidate)
	if norm == "" || len(history) == 0 {
		return false
	}
	words := strings.Fields(norm)
	phrases := shingles(words)
	sig := significantWords(words)

	for _, h := range history {
		existing := Normalize(h)
		if norm == existing {
			return true
		}

		shared := 0
		for _, p := range phrases {
			if strings.Contains(existing, p) {
				shared++
			}
		}
		if shared > maxSharedShingles {
			return true
		}

		if len(sig) == 0 {
			continue
		}
		var existingWords []string
		for _, w := range strings.Fields(existing) {
			if len(w) > 3 {
				existingWords = append(existingWords, w)
			}
		}
		matching := 0
		for _, w := range sig {
			for _, e := range existingWords {
				if fuzzyMatch(w, e) {
					matching++
					break
				}
			}
		}
		if float64(matching)/float64(len(sig)) > maxWordOverlap {
			return true
		}
	}
	return false
}
