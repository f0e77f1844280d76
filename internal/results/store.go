package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/backend"
	"github.com/abhisek/careerpath/internal/store"
)

const defaultSaveTimeout = 15 * time.Second

// Store persists results to the local bounded cache and, when a backend is
// configured, to the results service. The cache is always written first and
// is the fallback for every read.
type Store struct {
	cache   store.Cache
	backend backend.Client
	log     *zap.Logger

	saveTimeout time.Duration
	pending     sync.WaitGroup
}

// NewStore returns a Store over cache. be may be nil for local-only use.
func NewStore(cache store.Cache, be backend.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cache:       cache,
		backend:     be,
		log:         logger.Named("results"),
		saveTimeout: defaultSaveTimeout,
	}
}

// Save writes r to the local cache and starts the backend save in the
// background. Only a local cache failure is returned; backend failures are
// logged. Call Wait before exiting to let pending backend saves finish.
func (s *Store) Save(ctx context.Context, r *Result) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	cacheErr := s.cache.Put(ctx, r.ID, raw)
	if cacheErr != nil {
		cacheErr = fmt.Errorf("cache result: %w", cacheErr)
	}

	if s.backend != nil {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
			defer cancel()
			if err := s.backend.Save(saveCtx, raw); err != nil {
				s.log.Warn("backend save failed; result kept in local cache",
					zap.String("result_id", r.ID), zap.Error(err))
				return
			}
			s.log.Debug("result saved to backend", zap.String("result_id", r.ID))
		}()
	}

	return cacheErr
}

// Wait blocks until every background backend save has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

// List returns stored results newest first. Backend results are merged with
// the local cache so a result whose backend save failed or is still pending
// is not hidden. On any backend error, including ErrUnauthenticated, only the
// local cache is used.
func (s *Store) List(ctx context.Context) ([]Result, error) {
	cached, cacheErr := s.listCached(ctx)
	if s.backend == nil {
		return cached, cacheErr
	}
	raws, err := s.backend.Results(ctx)
	if err != nil {
		s.logFallback("list", err)
		return cached, cacheErr
	}
	if cacheErr != nil {
		s.log.Warn("local cache unreadable; listing backend results only", zap.Error(cacheErr))
	}
	return mergeNewestFirst(s.decodeAll(raws), cached), nil
}

// Latest returns the most recent result, or nil if none exists. The newer of
// the backend's latest and the cached latest wins; ties go to the backend.
func (s *Store) Latest(ctx context.Context) (*Result, error) {
	cached, cacheErr := s.latestCached(ctx)
	if s.backend == nil {
		return cached, cacheErr
	}
	raw, err := s.backend.Latest(ctx)
	if err != nil {
		s.logFallback("latest", err)
		return cached, cacheErr
	}
	if raw == nil {
		return cached, cacheErr
	}
	var remote Result
	if err := json.Unmarshal(raw, &remote); err != nil {
		s.log.Warn("undecodable latest result from backend; using local cache")
		return cached, cacheErr
	}
	if cached != nil && cached.CompletedAt.After(remote.CompletedAt) {
		return cached, nil
	}
	return &remote, nil
}

// Clear empties the local cache. Results held by the backend are untouched.
func (s *Store) Clear(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

func (s *Store) listCached(ctx context.Context) ([]Result, error) {
	entries, err := s.cache.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cached results: %w", err)
	}
	raws := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		raws[i] = e.Value
	}
	return s.decodeAll(raws), nil
}

func (s *Store) latestCached(ctx context.Context) (*Result, error) {
	e, err := s.cache.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest cached result: %w", err)
	}
	if e == nil {
		return nil, nil
	}
	var r Result
	if err := json.Unmarshal(e.Value, &r); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &r, nil
}

func (s *Store) decodeAll(raws []json.RawMessage) []Result {
	out := make([]Result, 0, len(raws))
	for _, raw := range raws {
		var r Result
		if err := json.Unmarshal(raw, &r); err != nil {
			s.log.Warn("skipping undecodable result", zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeNewestFirst combines remote and local results, dropping local copies
// of results the backend already holds.
func mergeNewestFirst(remote, local []Result) []Result {
	seen := make(map[string]bool, len(remote))
	out := make([]Result, 0, len(remote)+len(local))
	for _, r := range remote {
		seen[r.ID] = true
		out = append(out, r)
	}
	for _, r := range local {
		if !seen[r.ID] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (s *Store) logFallback(op string, err error) {
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.log.Debug("backend not authenticated; using local cache", zap.String("op", op))
		return
	}
	s.log.Warn("backend read failed; using local cache", zap.String("op", op), zap.Error(err))
}
