package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/notify"
	"github.com/abhisek/careerpath/internal/questiongen"
)

// chooser picks an option index for a question.
type chooser func(q *assessment.Question) int

func pickCategory(c assessment.Category) chooser {
	return func(q *assessment.Question) int {
		for i, o := range q.Options {
			if o.Category == c {
				return i
			}
		}
		return 0
	}
}

// answerAll runs a full session against the embedded catalog with an LLM
// that always fails, so every generated question comes from the fallback
// catalog.
func answerAll(t *testing.T, interest chooser, knowledgeCorrect bool) *assessment.Session {
	t.Helper()
	cat := catalog.MustDefault()
	gen := questiongen.NewDynamic(cat, llm.NewMockProvider(), questiongen.DefaultConfig(), nil)
	s, err := assessment.NewSession("test", assessment.Profile{EducationLevel: assessment.EducationSchool}, cat.Banks(), gen)
	require.NoError(t, err)

	ctx := context.Background()
	for !s.Done() {
		q, err := s.Current(ctx)
		require.NoError(t, err)

		idx := interest(q)
		if q.Origin == assessment.OriginKnowledge {
			idx = 0
			for i, o := range q.Options {
				if o.Correct == knowledgeCorrect {
					idx = i
					break
				}
			}
		}
		_, err = s.Answer(ctx, idx)
		require.NoError(t, err)
	}
	return s
}

func TestCompile_RejectsIncomplete(t *testing.T) {
	c := NewCompiler(catalog.MustDefault(), nil, nil, nil)
	_, err := c.Compile(context.Background(), assessment.Tally{})
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestCompile_AllTechnologyAllCorrect(t *testing.T) {
	s := answerAll(t, pickCategory(assessment.CategoryTechnology), true)

	tally := s.Tally()
	assert.Equal(t, 5, tally.Knowledge)

	c := NewCompiler(catalog.MustDefault(), nil, nil, nil)
	r, err := c.Compile(context.Background(), tally)
	require.NoError(t, err)
	assert.Equal(t, assessment.CategoryTechnology, r.DominantInterest)
	assert.Equal(t, 5, r.KnowledgeScore)
	assert.Equal(t, assessment.KnowledgeLabel(5), r.KnowledgeLabel)
	assert.Equal(t, catalog.MustDefault().Recommendation(assessment.CategoryTechnology).Title, r.Recommendation.Title)
	assert.NotEmpty(t, r.ID)
}

func TestCompile_RemoteUnreachableStillCompletes(t *testing.T) {
	s := answerAll(t, func(*assessment.Question) int { return 0 }, false)
	require.Len(t, s.Tally().Answers, assessment.TotalQuestions)
	require.Len(t, s.Generated(), assessment.GeneratedCount)

	seen := make(map[string]bool)
	for _, q := range s.Generated() {
		assert.Equal(t, questiongen.SourceFallback, q.Source)
		assert.False(t, seen[q.Text], "duplicate generated question %q", q.Text)
		seen[q.Text] = true
	}

	bus := notify.NewLocalBus()
	events := 0
	bus.Subscribe(func(ev notify.Event) {
		if ev.Name == notify.AssessmentCompleted {
			events++
		}
	})

	st := NewStore(openCache(t), nil, nil)
	c := NewCompiler(catalog.MustDefault(), st, bus, nil)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	r, err := c.Compile(context.Background(), s.Tally())
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Len(t, r.Answers, assessment.TotalQuestions)
	assert.Equal(t, assessment.TotalQuestions, r.TotalQuestions)
	assert.Equal(t, 0, r.KnowledgeScore)
	assert.Equal(t, 1, events)

	sum := r.InterestScores.Total()
	assert.Equal(t, assessment.InterestCount+assessment.GeneratedCount, sum)

	latest, err := st.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, r.ID, latest.ID)
	assert.True(t, latest.CompletedAt.Equal(r.CompletedAt))
}

func TestCompile_BackendFailureIsSwallowed(t *testing.T) {
	s := answerAll(t, pickCategory(assessment.CategoryBusiness), true)

	st := NewStore(openCache(t), &fakeBackend{err: errors.New("503")}, nil)
	c := NewCompiler(catalog.MustDefault(), st, nil, nil)

	r, err := c.Compile(context.Background(), s.Tally())
	require.NoError(t, err)
	st.Wait()

	assert.Equal(t, assessment.CategoryBusiness, r.DominantInterest)
	list, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
}
