package assessment

import (
	"context"
	"fmt"
	"time"
)

// Session is one in-progress assessment. It exclusively owns its scores,
// answer log, and generated-question cache. Callers must serialize access;
// only one operation may be in flight at a time.
type Session struct {
	ID        string
	Profile   Profile
	StartedAt time.Time

	seq     *Sequencer
	scorer  *Scorer
	current *Question
}

// NewSession creates a session over the given banks and generator.
func NewSession(id string, profile Profile, banks Banks, gen Generator) (*Session, error) {
	seq, err := NewSequencer(banks, gen)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &Session{
		ID:        id,
		Profile:   profile,
		StartedAt: time.Now().UTC(),
		seq:       seq,
		scorer:    NewScorer(),
	}, nil
}

// Current returns the question awaiting an answer, producing it if needed.
// Returns ErrComplete once all questions are answered.
func (s *Session) Current(ctx context.Context) (*Question, error) {
	if s.current != nil {
		return s.current, nil
	}
	q, err := s.seq.Next(ctx, s.Tally())
	if err != nil {
		return nil, err
	}
	s.current = q
	return q, nil
}

// Answer records the selected option for the current question and advances.
func (s *Session) Answer(ctx context.Context, optionIndex int) (Answer, error) {
	q, err := s.Current(ctx)
	if err != nil {
		return Answer{}, err
	}
	a, err := s.scorer.Record(q, optionIndex)
	if err != nil {
		return Answer{}, err
	}
	s.current = nil
	return a, nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.scorer.Len() >= TotalQuestions
}

// Progress returns answered and total question counts.
func (s *Session) Progress() (answered, total int) {
	return s.scorer.Len(), TotalQuestions
}

// Phase returns the phase of the next unanswered position.
func (s *Session) Phase() Phase {
	return PhaseOf(s.scorer.Len())
}

// Tally returns a snapshot of the session's scores and answers.
func (s *Session) Tally() Tally {
	return Tally{
		Profile:   s.Profile,
		Interest:  s.scorer.Interest(),
		Knowledge: s.scorer.Knowledge(),
		Answers:   s.scorer.Answers(),
	}
}

// Generated returns the dynamic questions produced so far.
func (s *Session) Generated() []*Question {
	return s.seq.Generated()
}
