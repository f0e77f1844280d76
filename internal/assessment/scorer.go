package assessment

import (
	"fmt"
	"time"
)

// Scorer accumulates interest tallies, the knowledge count, and the ordered
// answer log for one session. Not safe for concurrent use.
type Scorer struct {
	interest  InterestScores
	knowledge int
	answers   []Answer
	now       func() time.Time
}

// NewScorer returns an empty Scorer.
func NewScorer() *Scorer {
	return &Scorer{
		interest: make(InterestScores),
		now:      time.Now,
	}
}

// Record appends the answer for q and updates the matching score.
//
// Interest and generated answers add one to the selected option's category;
// a generated option without a known category is credited to the current
// dominant interest. Knowledge answers add one to the knowledge count only
// when the option is marked correct.
func (s *Scorer) Record(q *Question, optionIndex int) (Answer, error) {
	if q == nil {
		return Answer{}, fmt.Errorf("record answer: nil question")
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return Answer{}, fmt.Errorf("%w: %d (question has %d options)", ErrInvalidOption, optionIndex, len(q.Options))
	}

	opt := q.Options[optionIndex]

	switch q.Origin {
	case OriginKnowledge:
		if opt.Correct {
			s.knowledge++
		}
	case OriginGenerated:
		if !opt.Category.Valid() {
			opt.Category = Dominant(s.interest)
		}
		s.interest.Add(opt.Category)
	default:
		s.interest.Add(opt.Category)
	}

	a := Answer{
		Position:     len(s.answers),
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Origin:       q.Origin,
		OptionIndex:  optionIndex,
		Option:       opt,
		AnsweredAt:   s.now().UTC(),
	}
	s.answers = append(s.answers, a)
	return a, nil
}

// Interest returns a copy of the current interest tallies.
func (s *Scorer) Interest() InterestScores {
	return s.interest.Clone()
}

// Knowledge returns the number of correct knowledge answers.
func (s *Scorer) Knowledge() int {
	return s.knowledge
}

// Answers returns a copy of the answer log.
func (s *Scorer) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Len returns the number of recorded answers.
func (s *Scorer) Len() int {
	return len(s.answers)
}
