// Package simulate drives complete assessments without a learner, for
// catalog and generator checks.
package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/results"
)

// Strategy picks an option index for a question.
type Strategy interface {
	Choose(q *assessment.Question) int
	Name() string
}

// perRun is implemented by strategies that keep state and need a fresh
// instance for every run.
type perRun interface {
	ForRun(n int) Strategy
}

// First always picks the first option.
type First struct{}

func (First) Choose(*assessment.Question) int { return 0 }
func (First) Name() string                    { return "first" }

// Random picks uniformly. It is safe for concurrent use, but within a batch
// each run draws from its own source so outcomes do not depend on how runs
// are scheduled.
type Random struct {
	seed uint64
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewRandom returns a Random seeded with seed.
func NewRandom(seed uint64) *Random {
	return &Random{seed: seed, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Random) Choose(q *assessment.Question) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(len(q.Options))
}

// ForRun returns a Random for run n seeded from seed+n.
func (r *Random) ForRun(n int) Strategy {
	return NewRandom(r.seed + uint64(n))
}

func (r *Random) Name() string { return "random" }

// Favor picks the option tagged with Category and, on knowledge questions,
// the correct option. It falls back to the first option.
type Favor struct {
	Category assessment.Category
}

func (f Favor) Choose(q *assessment.Question) int {
	for i, o := range q.Options {
		if q.Origin == assessment.OriginKnowledge {
			if o.Correct {
				return i
			}
			continue
		}
		if o.Category == f.Category {
			return i
		}
	}
	return 0
}

func (f Favor) Name() string { return string(f.Category) }

// ParseStrategy maps a flag value to a Strategy: "first", "random" or a
// category name.
func ParseStrategy(s string, seed uint64) (Strategy, error) {
	switch s {
	case "first":
		return First{}, nil
	case "random":
		return NewRandom(seed), nil
	}
	if c, ok := assessment.ParseCategory(s); ok {
		return Favor{Category: c}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q: want first, random or a category", s)
}

// Config configures a batch of simulated assessments.
type Config struct {
	Runs        int
	Concurrency int
	Profile     assessment.Profile
	Strategy    Strategy
	GenConfig   questiongen.Config
}

// Outcome is the result of one simulated assessment.
type Outcome struct {
	Run      int
	Result   *results.Result
	Remote   int
	Fallback int
	Unique   int
	Duration time.Duration
}

// Runner runs simulated assessments against a catalog and optional provider.
type Runner struct {
	catalog  *catalog.Catalog
	provider llm.Provider
	compiler *results.Compiler
	log      *zap.Logger
}

// NewRunner builds a Runner. provider may be nil. Results are compiled but
// never persisted.
func NewRunner(cat *catalog.Catalog, provider llm.Provider, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		catalog:  cat,
		provider: provider,
		compiler: results.NewCompiler(cat, nil, nil, logger),
		log:      logger.Named("simulate"),
	}
}

// Run plays cfg.Runs assessments, at most cfg.Concurrency at a time, and
// returns their outcomes in run order.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]Outcome, error) {
	if cfg.Runs <= 0 {
		return nil, nil
	}
	if cfg.Strategy == nil {
		cfg.Strategy = First{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	outcomes := make([]Outcome, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := range cfg.Runs {
		g.Go(func() error {
			o, err := r.runOne(gctx, i+1, cfg)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, n int, cfg Config) (Outcome, error) {
	start := time.Now()
	gen := questiongen.NewDynamic(r.catalog, r.provider, cfg.GenConfig, r.log)
	sess, err := assessment.NewSession(fmt.Sprintf("sim-%d", n), cfg.Profile, r.catalog.Banks(), gen)
	if err != nil {
		return Outcome{}, err
	}

	strategy := cfg.Strategy
	if pr, ok := strategy.(perRun); ok {
		strategy = pr.ForRun(n)
	}

	for !sess.Done() {
		q, err := sess.Current(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if _, err := sess.Answer(ctx, strategy.Choose(q)); err != nil {
			return Outcome{}, err
		}
	}

	res, err := r.compiler.Compile(ctx, sess.Tally())
	if err != nil {
		return Outcome{}, err
	}

	o := Outcome{Run: n, Result: res, Duration: time.Since(start)}
	seen := make(map[string]bool)
	for _, q := range sess.Generated() {
		switch q.Source {
		case questiongen.SourceRemote:
			o.Remote++
		case questiongen.SourceFallback:
			o.Fallback++
		}
		seen[q.Text] = true
	}
	o.Unique = len(seen)

	r.log.Debug("simulated assessment",
		zap.Int("run", n),
		zap.String("dominant", string(res.DominantInterest)),
		zap.Int("remote", o.Remote),
		zap.Int("fallback", o.Fallback),
	)
	return o, nil
}

// Distribution counts dominant interests across outcomes.
func Distribution(outcomes []Outcome) map[assessment.Category]int {
	out := make(map[assessment.Category]int)
	for _, o := range outcomes {
		if o.Result != nil {
			out[o.Result.DominantInterest]++
		}
	}
	return out
}
