package questiongen

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
)

// Dynamic implements assessment.Generator. It tries the LLM provider first
// and degrades to the local catalog on any failure or duplicate, so
// NextQuestion never fails because of the remote service.
//
// A Dynamic holds one session's question history and used facets. Create
// one per session; it is not safe for concurrent use.
type Dynamic struct {
	catalog *catalog.Catalog
	remote  *remoteGenerator
	config  Config
	logger  *zap.Logger

	facets  []string
	history *History
	topics  *TopicSet
	suffix  func() string
}

var _ assessment.Generator = (*Dynamic)(nil)

// NewDynamic creates a generator for one session. provider may be nil, in
// which case every question comes from the catalog.
func NewDynamic(cat *catalog.Catalog, provider llm.Provider, cfg Config, logger *zap.Logger) *Dynamic {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dynamic{
		catalog: cat,
		config:  cfg,
		logger:  logger.Named("questiongen"),
		facets:  cat.Facets(),
		history: NewHistory(),
		topics:  NewTopicSet(),
		suffix:  randomSuffix,
	}
	if provider != nil {
		d.remote = &remoteGenerator{provider: provider, config: cfg}
	}
	return d
}

// NextQuestion produces the question for one generated slot.
func (d *Dynamic) NextQuestion(ctx context.Context, input assessment.GenerateInput) (*assessment.Question, error) {
	dominant := assessment.Dominant(input.Interest)

	if d.remote != nil {
		facet := selectFacet(d.facets, d.topics, input.Index, d.suffix)
		q, err := d.remote.generate(ctx, promptInput{
			Input:    input,
			Dominant: dominant,
			Facet:    facet,
			Prior:    d.history.Texts(),
		})
		switch {
		case err != nil:
			d.logger.Warn("remote question generation failed, using catalog",
				zapPosition(input.Position), zapFacet(facet), zap.Error(err))
		case d.history.IsDuplicate(q.Text):
			d.logger.Info("remote question rejected as duplicate, using catalog",
				zapPosition(input.Position), zapFacet(facet), zap.String("question", q.Text))
		default:
			d.accept(q)
			return q, nil
		}
	}

	q := d.fallbackQuestion(input, dominant)
	d.accept(q)
	return q, nil
}

// History returns the texts accepted so far.
func (d *Dynamic) History() []string { return d.history.Texts() }

// Topics returns the facets used so far.
func (d *Dynamic) Topics() []string { return d.topics.List() }

func (d *Dynamic) accept(q *assessment.Question) {
	d.history.Add(q.Text)
	d.topics.Add(q.Facet)
	d.logger.Debug("question accepted",
		zap.Int("id", q.ID), zapFacet(q.Facet), zap.String("source", q.Source))
}

func zapPosition(p int) zap.Field { return zap.Int("position", p) }
func zapFacet(f string) zap.Field { return zap.String("facet", f) }
func zapAttempt(a int) zap.Field  { return zap.Int("attempt", a) }
