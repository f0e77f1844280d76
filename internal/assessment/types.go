package assessment

import "time"

// Category is a career-interest dimension.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryCreative   Category = "creative"
	CategoryAnalytical Category = "analytical"
	CategoryEducation  Category = "education"
	CategoryBusiness   Category = "business"
)

// Categories lists every interest category in canonical order. The order is
// significant: it is the tie-break order used by Dominant.
var Categories = []Category{
	CategoryTechnology,
	CategoryCreative,
	CategoryAnalytical,
	CategoryEducation,
	CategoryBusiness,
}

// Valid reports whether c is one of the known interest categories.
func (c Category) Valid() bool {
	return categoryRank(c) >= 0
}

// ParseCategory maps a free-form label to a known category.
// Returns false when the label does not name a category.
func ParseCategory(s string) (Category, bool) {
	c := Category(normalizeLabel(s))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// Origin identifies which bank a question came from.
type Origin string

const (
	OriginInterest  Origin = "interest"
	OriginKnowledge Origin = "knowledge"
	OriginGenerated Origin = "generated"
)

// Option is one selectable answer. Interest and generated options carry a
// Category; knowledge options carry Correct instead.
type Option struct {
	Text     string   `json:"text" yaml:"text"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
	Correct  bool     `json:"correct,omitempty" yaml:"correct,omitempty"`
}

// Question is one prompt with its ordered options.
type Question struct {
	// ID is stable within a bank; generated questions use 16+generated index
	// so IDs read 1..35 across a full run.
	ID int `json:"id" yaml:"id"`

	// Position is the zero-based slot in the 35-question sequence.
	Position int `json:"position" yaml:"-"`

	Text    string   `json:"question" yaml:"question"`
	Origin  Origin   `json:"origin" yaml:"-"`
	Options []Option `json:"options" yaml:"options"`

	// Facet is the topical sub-area a generated question covers.
	// Empty for bank questions.
	Facet string `json:"facet,omitempty" yaml:"-"`

	// Source records whether a generated question came from the remote
	// service or the local catalog. Empty for bank questions.
	Source string `json:"source,omitempty" yaml:"-"`
}

// Answer is an immutable record of the option selected for a question.
type Answer struct {
	Position     int       `json:"position"`
	QuestionID   int       `json:"question_id"`
	QuestionText string    `json:"question"`
	Origin       Origin    `json:"origin"`
	OptionIndex  int       `json:"option_index"`
	Option       Option    `json:"option"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// EducationLevel is the learner's self-reported stage.
type EducationLevel string

const (
	EducationSchool        EducationLevel = "school"
	EducationSecondary     EducationLevel = "secondary"
	EducationUndergraduate EducationLevel = "undergraduate"
	EducationProfessional  EducationLevel = "professional"
)

// EducationLevels lists the selectable levels in display order.
var EducationLevels = []EducationLevel{
	EducationSchool,
	EducationSecondary,
	EducationUndergraduate,
	EducationProfessional,
}

// Context returns the one-line description fed to the question generator.
func (e EducationLevel) Context() string {
	switch e {
	case EducationSchool:
		return "High school student exploring career options"
	case EducationSecondary:
		return "Higher secondary student preparing for college"
	case EducationUndergraduate:
		return "College student building foundational skills"
	case EducationProfessional:
		return "Working professional seeking career advancement"
	default:
		return "Student exploring career options"
	}
}

// Profile describes who is taking the assessment.
type Profile struct {
	Learner        string         `json:"learner,omitempty"`
	EducationLevel EducationLevel `json:"education_level"`
}
