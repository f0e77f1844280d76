package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/backend"
	"github.com/abhisek/careerpath/internal/store"
)

// fakeBackend is an in-memory backend.Client whose calls can be made to fail.
type fakeBackend struct {
	mu      sync.Mutex
	saved   []json.RawMessage
	err     error
	saveErr error
}

func (f *fakeBackend) Save(_ context.Context, raw json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]json.RawMessage{raw}, f.saved...)
	return nil
}

func (f *fakeBackend) Results(context.Context) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]json.RawMessage(nil), f.saved...), nil
}

func (f *fakeBackend) Latest(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.saved) == 0 {
		return nil, nil
	}
	return f.saved[0], nil
}

var _ backend.Client = (*fakeBackend)(nil)

func openCache(t *testing.T) store.Cache {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.ResultCache()
}

func sampleResult(id string) *Result {
	return &Result{
		ID:               id,
		EducationLevel:   assessment.EducationUndergraduate,
		DominantInterest: assessment.CategoryCreative,
		InterestScores:   assessment.InterestScores{assessment.CategoryCreative: 3},
		TotalQuestions:   assessment.TotalQuestions,
	}
}

func TestStore_BackendFailureStillCaches(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{err: errors.New("connection refused")}
	s := NewStore(openCache(t), be, nil)

	require.NoError(t, s.Save(ctx, sampleResult("r1")))
	s.Wait()

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "r1", latest.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}

func TestStore_CacheNeverExceedsFive(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openCache(t), &fakeBackend{err: errors.New("down")}, nil)

	for i := 1; i <= 7; i++ {
		require.NoError(t, s.Save(ctx, sampleResult(fmt.Sprintf("r%d", i))))
	}
	s.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, store.ResultCacheCapacity)
	assert.Equal(t, "r7", list[0].ID, "most recent first")
	assert.Equal(t, "r3", list[4].ID, "oldest entries evicted")
}

func TestStore_PrefersBackend(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{}
	be.saved = []json.RawMessage{json.RawMessage(`{"id":"remote-only"}`)}
	s := NewStore(openCache(t), be, nil)

	require.NoError(t, s.Save(ctx, sampleResult("r1")))
	s.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].ID)
	assert.Equal(t, "remote-only", list[1].ID)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", latest.ID)
}

func TestStore_NewerCachedResultWinsOverBackend(t *testing.T) {
	ctx := context.Background()
	older := sampleResult("remote-old")
	older.CompletedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	oldRaw, err := json.Marshal(older)
	require.NoError(t, err)

	be := &fakeBackend{saved: []json.RawMessage{oldRaw}, saveErr: errors.New("gateway timeout")}
	s := NewStore(openCache(t), be, nil)

	fresh := sampleResult("just-finished")
	fresh.DominantInterest = assessment.CategoryBusiness
	fresh.CompletedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, fresh))
	s.Wait()

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "just-finished", latest.ID)
	assert.Equal(t, assessment.CategoryBusiness, latest.DominantInterest)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "just-finished", list[0].ID)
	assert.Equal(t, "remote-old", list[1].ID)
}

func TestStore_BackendLatestWinsWhenNewer(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{}
	s := NewStore(openCache(t), be, nil)

	local := sampleResult("local")
	local.CompletedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, local))
	s.Wait()

	other := sampleResult("other-device")
	other.CompletedAt = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(other)
	require.NoError(t, err)
	be.mu.Lock()
	be.saved = append([]json.RawMessage{raw}, be.saved...)
	be.mu.Unlock()

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other-device", latest.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "the cached copy of a saved result is not listed twice")
	assert.Equal(t, "other-device", list[0].ID)
}

func TestStore_UnauthenticatedUsesCache(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{}
	s := NewStore(openCache(t), be, nil)

	require.NoError(t, s.Save(ctx, sampleResult("mine")))
	s.Wait()

	be.mu.Lock()
	be.saved = nil
	be.err = backend.ErrUnauthenticated
	be.mu.Unlock()

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "mine", latest.ID)
}

func TestStore_LocalOnly(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openCache(t), nil, nil)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, s.Save(ctx, sampleResult("a")))
	require.NoError(t, s.Clear(ctx))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
