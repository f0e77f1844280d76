package assessment

import (
	"context"
	"fmt"
)

// Question counts per phase.
const (
	InterestCount  = 10
	KnowledgeCount = 5
	GeneratedCount = 20
	TotalQuestions = InterestCount + KnowledgeCount + GeneratedCount
)

// Phase is the stage of the assessment a position belongs to.
type Phase int

const (
	PhaseInterest Phase = iota
	PhaseKnowledge
	PhaseGenerated
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInterest:
		return "interest"
	case PhaseKnowledge:
		return "knowledge"
	case PhaseGenerated:
		return "generated"
	default:
		return "complete"
	}
}

// PhaseOf maps a zero-based position to its phase.
func PhaseOf(position int) Phase {
	switch {
	case position < InterestCount:
		return PhaseInterest
	case position < InterestCount+KnowledgeCount:
		return PhaseKnowledge
	case position < TotalQuestions:
		return PhaseGenerated
	default:
		return PhaseComplete
	}
}

// Banks holds the fixed question banks.
type Banks struct {
	Interest  []Question
	Knowledge []Question
}

// Tally is the read-only view of a session's state handed to the generator.
type Tally struct {
	Profile   Profile
	Interest  InterestScores
	Knowledge int
	Answers   []Answer
}

// GenerateInput is everything a Generator needs to produce the question for
// one dynamic slot.
type GenerateInput struct {
	// Position is the absolute slot (15..34).
	Position int

	// Index is the zero-based generated slot (0..19).
	Index int

	Tally
}

// Generator produces dynamic questions. Implementations must not return
// remote-service failures; an error means a programming fault.
type Generator interface {
	NextQuestion(ctx context.Context, input GenerateInput) (*Question, error)
}

// Sequencer decides which question sits at each position. Bank questions are
// served in order; generated questions are produced once per position and
// cached. Not safe for concurrent use.
type Sequencer struct {
	banks     Banks
	generator Generator
	generated map[int]*Question
}

// NewSequencer validates the banks and returns a Sequencer.
func NewSequencer(banks Banks, gen Generator) (*Sequencer, error) {
	if len(banks.Interest) < InterestCount {
		return nil, fmt.Errorf("interest bank has %d questions, need %d", len(banks.Interest), InterestCount)
	}
	if len(banks.Knowledge) < KnowledgeCount {
		return nil, fmt.Errorf("knowledge bank has %d questions, need %d", len(banks.Knowledge), KnowledgeCount)
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	return &Sequencer{
		banks:     banks,
		generator: gen,
		generated: make(map[int]*Question),
	}, nil
}

// Next returns the question for position len(t.Answers), or ErrComplete once
// every position has been answered.
func (s *Sequencer) Next(ctx context.Context, t Tally) (*Question, error) {
	pos := len(t.Answers)

	switch PhaseOf(pos) {
	case PhaseInterest:
		return s.fromBank(s.banks.Interest[pos], pos, OriginInterest), nil
	case PhaseKnowledge:
		return s.fromBank(s.banks.Knowledge[pos-InterestCount], pos, OriginKnowledge), nil
	case PhaseGenerated:
		if q, ok := s.generated[pos]; ok {
			return q, nil
		}
		q, err := s.generator.NextQuestion(ctx, GenerateInput{
			Position: pos,
			Index:    pos - InterestCount - KnowledgeCount,
			Tally:    t,
		})
		if err != nil {
			return nil, fmt.Errorf("generate question %d: %w", pos+1, err)
		}
		q.Position = pos
		q.Origin = OriginGenerated
		s.generated[pos] = q
		return q, nil
	default:
		return nil, ErrComplete
	}
}

// Generated returns the generated questions produced so far, by position.
func (s *Sequencer) Generated() []*Question {
	out := make([]*Question, 0, len(s.generated))
	for pos := InterestCount + KnowledgeCount; pos < TotalQuestions; pos++ {
		if q, ok := s.generated[pos]; ok {
			out = append(out, q)
		}
	}
	return out
}

func (s *Sequencer) fromBank(q Question, pos int, origin Origin) *Question {
	cp := q
	cp.Position = pos
	cp.Origin = origin
	cp.Options = append([]Option(nil), q.Options...)
	return &cp
}
