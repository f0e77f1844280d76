package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/notify"
)

// ErrIncomplete is returned when Compile is given fewer answers than a full
// assessment. Partial results are never produced or persisted.
var ErrIncomplete = errors.New("assessment is not complete")

// Compiler turns a finished session's tally into a Result, persists it and
// announces completion.
type Compiler struct {
	catalog *catalog.Catalog
	store   *Store
	bus     notify.Bus
	log     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewCompiler returns a Compiler. store and bus may be nil, in which case
// the result is only returned.
func NewCompiler(cat *catalog.Catalog, store *Store, bus notify.Bus, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		catalog: cat,
		store:   store,
		bus:     bus,
		log:     logger.Named("compiler"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Compile builds the result for t. Persistence and notification failures are
// logged and never returned; the only errors are ErrIncomplete and a missing
// catalog.
func (c *Compiler) Compile(ctx context.Context, t assessment.Tally) (*Result, error) {
	if len(t.Answers) < assessment.TotalQuestions {
		return nil, fmt.Errorf("%w: %d of %d answered", ErrIncomplete, len(t.Answers), assessment.TotalQuestions)
	}
	if c.catalog == nil {
		return nil, fmt.Errorf("compile: no catalog")
	}

	dominant := assessment.Dominant(t.Interest)
	r := &Result{
		ID:               c.newID(),
		Learner:          t.Profile.Learner,
		EducationLevel:   t.Profile.EducationLevel,
		DominantInterest: dominant,
		InterestScores:   t.Interest.Clone(),
		KnowledgeScore:   t.Knowledge,
		KnowledgeLabel:   assessment.KnowledgeLabel(t.Knowledge),
		TotalQuestions:   len(t.Answers),
		Recommendation:   c.catalog.Recommendation(dominant),
		CompletedAt:      c.now().UTC(),
		Answers:          append([]assessment.Answer(nil), t.Answers...),
	}

	if c.store != nil {
		if err := c.store.Save(ctx, r); err != nil {
			c.log.Error("persist result", zap.String("result_id", r.ID), zap.Error(err))
		}
	}

	if c.bus != nil {
		if err := c.bus.Publish(ctx, notify.Event{Name: notify.AssessmentCompleted}); err != nil {
			c.log.Warn("publish completion event", zap.Error(err))
		}
	}

	c.log.Info("assessment compiled",
		zap.String("result_id", r.ID),
		zap.String("dominant", string(dominant)),
		zap.Int("knowledge", r.KnowledgeScore),
	)
	return r, nil
}
