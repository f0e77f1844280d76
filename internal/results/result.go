// Package results compiles finished assessments into recommendation results
// and persists them locally and to the results service.
package results

import (
	"time"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
)

// Result is the outcome of one completed assessment. It is created once and
// never modified. Field names follow the results service's wire format.
type Result struct {
	ID               string                    `json:"id"`
	Learner          string                    `json:"learner,omitempty"`
	EducationLevel   assessment.EducationLevel `json:"educationLevel"`
	DominantInterest assessment.Category       `json:"dominantInterest"`
	InterestScores   assessment.InterestScores `json:"interestScores"`
	KnowledgeScore   int                       `json:"knowledgeScore"`
	KnowledgeLabel   string                    `json:"knowledgeLevel"`
	TotalQuestions   int                       `json:"totalQuestions"`
	Recommendation   catalog.Recommendation    `json:"recommendation"`
	CompletedAt      time.Time                 `json:"completedAt"`
	Answers          []assessment.Answer       `json:"allAnswers"`
}

// TopInterests returns the non-zero interest categories, highest first.
func (r *Result) TopInterests() []assessment.Category {
	return r.InterestScores.Ranked()
}
