package assessment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBanks builds banks where interest question i offers one option per
// category in canonical order and knowledge question i has its correct
// answer at index i%4.
func testBanks() Banks {
	var b Banks
	for i := 0; i < InterestCount; i++ {
		q := Question{ID: i + 1, Text: fmt.Sprintf("interest %d", i+1), Origin: OriginInterest}
		for _, c := range Categories {
			q.Options = append(q.Options, Option{Text: string(c), Category: c})
		}
		b.Interest = append(b.Interest, q)
	}
	for i := 0; i < KnowledgeCount; i++ {
		q := Question{ID: InterestCount + i + 1, Text: fmt.Sprintf("knowledge %d", i+1), Origin: OriginKnowledge}
		for j := 0; j < 4; j++ {
			q.Options = append(q.Options, Option{Text: fmt.Sprint(j), Correct: j == i%4})
		}
		b.Knowledge = append(b.Knowledge, q)
	}
	return b
}

// stubGenerator returns numbered questions whose options are labelled with
// the given categories, and records every input it saw.
type stubGenerator struct {
	categories []Category
	inputs     []GenerateInput
	err        error
}

func (g *stubGenerator) NextQuestion(_ context.Context, in GenerateInput) (*Question, error) {
	g.inputs = append(g.inputs, in)
	if g.err != nil {
		return nil, g.err
	}
	q := &Question{ID: in.Position + 1, Text: fmt.Sprintf("generated %d", in.Index)}
	for i := 0; i < 4; i++ {
		c := Category("")
		if len(g.categories) > 0 {
			c = g.categories[i%len(g.categories)]
		}
		q.Options = append(q.Options, Option{Text: fmt.Sprint(i), Category: c})
	}
	return q, nil
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		pos  int
		want Phase
	}{
		{0, PhaseInterest},
		{9, PhaseInterest},
		{10, PhaseKnowledge},
		{14, PhaseKnowledge},
		{15, PhaseGenerated},
		{34, PhaseGenerated},
		{35, PhaseComplete},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseOf(tt.pos), "position %d", tt.pos)
	}
}

func TestDominant(t *testing.T) {
	tests := []struct {
		name   string
		scores InterestScores
		want   Category
	}{
		{"empty", InterestScores{}, CategoryTechnology},
		{"nil", nil, CategoryTechnology},
		{"all zero", InterestScores{CategoryBusiness: 0}, CategoryTechnology},
		{"clear winner", InterestScores{CategoryCreative: 3, CategoryBusiness: 1}, CategoryCreative},
		{"tie goes to canonical order", InterestScores{CategoryBusiness: 2, CategoryAnalytical: 2}, CategoryAnalytical},
		{"tie with technology", InterestScores{CategoryEducation: 4, CategoryTechnology: 4}, CategoryTechnology},
		{"unknown label ranks after known", InterestScores{"alternative": 2, CategoryBusiness: 2}, CategoryBusiness},
		{"unknown label can still win outright", InterestScores{"alternative": 3, CategoryBusiness: 2}, "alternative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map iteration order is random; repeat to catch order dependence.
			for i := 0; i < 20; i++ {
				assert.Equal(t, tt.want, Dominant(tt.scores))
			}
		})
	}
}

func TestRanked(t *testing.T) {
	s := InterestScores{CategoryBusiness: 2, CategoryCreative: 5, CategoryAnalytical: 2, CategoryEducation: 0}
	assert.Equal(t, []Category{CategoryCreative, CategoryAnalytical, CategoryBusiness}, s.Ranked())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("  Creative ")
	assert.True(t, ok)
	assert.Equal(t, CategoryCreative, c)

	_, ok = ParseCategory("alternative")
	assert.False(t, ok)
}

func TestKnowledgeLabel(t *testing.T) {
	assert.Contains(t, KnowledgeLabel(5), "Advanced")
	assert.Contains(t, KnowledgeLabel(4), "Advanced")
	assert.Contains(t, KnowledgeLabel(3), "Intermediate")
	assert.Contains(t, KnowledgeLabel(2), "Beginner")
	assert.Contains(t, KnowledgeLabel(0), "Novice")
}

func TestScorer_Record(t *testing.T) {
	s := NewScorer()
	banks := testBanks()

	_, err := s.Record(&banks.Interest[0], 1) // creative
	require.NoError(t, err)
	_, err = s.Record(&banks.Knowledge[0], 0) // correct
	require.NoError(t, err)
	_, err = s.Record(&banks.Knowledge[1], 0) // wrong
	require.NoError(t, err)

	assert.Equal(t, 1, s.Interest()[CategoryCreative])
	assert.Equal(t, 1, s.Knowledge())
	assert.Equal(t, 3, s.Len())

	_, err = s.Record(&banks.Interest[1], 5)
	assert.True(t, errors.Is(err, ErrInvalidOption))
	_, err = s.Record(&banks.Interest[1], -1)
	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.Equal(t, 3, s.Len(), "rejected answers are not logged")
}

func TestScorer_GeneratedUnknownCategoryCreditsDominant(t *testing.T) {
	s := NewScorer()
	banks := testBanks()
	_, err := s.Record(&banks.Interest[0], 2) // analytical
	require.NoError(t, err)

	q := &Question{Origin: OriginGenerated, Options: []Option{{Text: "x", Category: "alternative"}}}
	a, err := s.Record(q, 0)
	require.NoError(t, err)
	assert.Equal(t, CategoryAnalytical, a.Option.Category)
	assert.Equal(t, 2, s.Interest()[CategoryAnalytical])
}

func TestScorer_ReturnsCopies(t *testing.T) {
	s := NewScorer()
	banks := testBanks()
	_, _ = s.Record(&banks.Interest[0], 0)

	s.Interest()[CategoryTechnology] = 99
	answers := s.Answers()
	answers[0].OptionIndex = 99

	assert.Equal(t, 1, s.Interest()[CategoryTechnology])
	assert.Equal(t, 0, s.Answers()[0].OptionIndex)
}

func TestNewSequencer_Validates(t *testing.T) {
	banks := testBanks()
	_, err := NewSequencer(Banks{Interest: banks.Interest[:3], Knowledge: banks.Knowledge}, &stubGenerator{})
	assert.Error(t, err)
	_, err = NewSequencer(Banks{Interest: banks.Interest}, &stubGenerator{})
	assert.Error(t, err)
	_, err = NewSequencer(banks, nil)
	assert.Error(t, err)
}

func TestSession_FullRun(t *testing.T) {
	gen := &stubGenerator{categories: []Category{CategoryEducation}}
	s, err := NewSession("s1", Profile{Learner: "sam", EducationLevel: EducationSecondary}, testBanks(), gen)
	require.NoError(t, err)
	ctx := context.Background()

	var phases []Phase
	for !s.Done() {
		phases = append(phases, s.Phase())
		q, err := s.Current(ctx)
		require.NoError(t, err)

		idx := 0
		if q.Origin == OriginKnowledge {
			for i, o := range q.Options {
				if o.Correct {
					idx = i
				}
			}
		}
		a, err := s.Answer(ctx, idx)
		require.NoError(t, err)
		assert.Equal(t, len(phases)-1, a.Position)
		assert.Equal(t, q.Position, a.Position)
	}

	assert.Equal(t, PhaseComplete, s.Phase())
	answered, total := s.Progress()
	assert.Equal(t, TotalQuestions, answered)
	assert.Equal(t, TotalQuestions, total)

	// Phases run strictly forward.
	for i, p := range phases {
		assert.Equal(t, PhaseOf(i), p)
	}

	tally := s.Tally()
	assert.Equal(t, KnowledgeCount, tally.Knowledge)
	assert.Equal(t, InterestCount, tally.Interest[CategoryTechnology])
	assert.Equal(t, GeneratedCount, tally.Interest[CategoryEducation])
	assert.Equal(t, InterestCount+GeneratedCount, tally.Interest.Total())
	assert.Len(t, tally.Answers, TotalQuestions)

	_, err = s.Current(ctx)
	assert.True(t, errors.Is(err, ErrComplete))
	_, err = s.Answer(ctx, 0)
	assert.True(t, errors.Is(err, ErrComplete))

	// Generator saw every generated slot exactly once, in order, with the
	// full answer log so far.
	require.Len(t, gen.inputs, GeneratedCount)
	for i, in := range gen.inputs {
		assert.Equal(t, i, in.Index)
		assert.Equal(t, InterestCount+KnowledgeCount+i, in.Position)
		assert.Len(t, in.Answers, in.Position)
		assert.Equal(t, "sam", in.Profile.Learner)
	}
	assert.Len(t, s.Generated(), GeneratedCount)
}

func TestSession_CurrentIsStableUntilAnswered(t *testing.T) {
	gen := &stubGenerator{categories: Categories}
	s, err := NewSession("s2", Profile{}, testBanks(), gen)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < InterestCount+KnowledgeCount; i++ {
		_, err := s.Answer(ctx, 0)
		require.NoError(t, err)
	}

	first, err := s.Current(ctx)
	require.NoError(t, err)
	again, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, gen.inputs, 1, "asking twice must not regenerate")
	assert.Equal(t, OriginGenerated, first.Origin)
}

func TestSession_InvalidOptionDoesNotAdvance(t *testing.T) {
	s, err := NewSession("s3", Profile{}, testBanks(), &stubGenerator{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Answer(ctx, 42)
	assert.True(t, errors.Is(err, ErrInvalidOption))
	answered, _ := s.Progress()
	assert.Equal(t, 0, answered)
}

func TestSession_GeneratorErrorPropagates(t *testing.T) {
	s, err := NewSession("s4", Profile{}, testBanks(), &stubGenerator{err: errors.New("bug")})
	require.NoError(t, err)
	ctx := context.Background()
	for i := 0; i < InterestCount+KnowledgeCount; i++ {
		_, err := s.Answer(ctx, 0)
		require.NoError(t, err)
	}
	_, err = s.Current(ctx)
	assert.Error(t, err)
}

func TestBankQuestionsAreCopies(t *testing.T) {
	banks := testBanks()
	seq, err := NewSequencer(banks, &stubGenerator{})
	require.NoError(t, err)

	q, err := seq.Next(context.Background(), Tally{})
	require.NoError(t, err)
	q.Options[0].Text = "mutated"
	assert.Equal(t, string(CategoryTechnology), banks.Interest[0].Options[0].Text)
}
