package questiongen

// History is the ordered record of accepted question texts in one session,
// with a set of their hashes. It only grows.
type History struct {
	texts  []string
	hashes map[string]bool
	exact  map[string]bool
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{
		hashes: make(map[string]bool),
		exact:  make(map[string]bool),
	}
}

// Add records an accepted question text.
func (h *History) Add(text string) {
	h.texts = append(h.texts, text)
	h.hashes[Hash(text)] = true
	h.exact[Normalize(text)] = true
}

// Texts returns the accepted texts in order.
func (h *History) Texts() []string {
	return append([]string(nil), h.texts...)
}

// Len returns the number of accepted texts.
func (h *History) Len() int { return len(h.texts) }

// Contains reports whether text normalizes to an already accepted text.
func (h *History) Contains(text string) bool {
	return h.exact[Normalize(text)]
}

// IsDuplicate reports whether text shares a hash with, or is a near
// duplicate of, any accepted text.
func (h *History) IsDuplicate(text string) bool {
	return h.hashes[Hash(text)] || IsNearDuplicate(text, h.texts)
}

// TopicSet is the set of facets already covered in a session. It only grows.
type TopicSet struct {
	order []string
	set   map[string]bool
}

// NewTopicSet returns an empty TopicSet.
func NewTopicSet() *TopicSet {
	return &TopicSet{set: make(map[string]bool)}
}

// Add records a facet. Adding a facet twice is a no-op.
func (t *TopicSet) Add(facet string) {
	if t.set[facet] {
		return
	}
	t.set[facet] = true
	t.order = append(t.order, facet)
}

// Has reports whether facet has been used.
func (t *TopicSet) Has(facet string) bool { return t.set[facet] }

// Len returns the number of distinct facets used.
func (t *TopicSet) Len() int { return len(t.order) }

// List returns the used facets in the order they were first added.
func (t *TopicSet) List() []string {
	return append([]string(nil), t.order...)
}
