package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

type countingWindowLoader struct {
	calls  int
	window examdomain.ExamWindow
}

func (c *countingWindowLoader) Load(ctx context.Context) (examdomain.ExamWindow, error) {
	c.calls++
	return c.window, nil
}

type fakeWindowCache struct {
	entries map[string]cachedWindow
	sets    int
}

func (f *fakeWindowCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	entry, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	*(dest.(*cachedWindow)) = entry
	return true, nil
}

func (f *fakeWindowCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = make(map[string]cachedWindow)
	}
	f.entries[key] = value.(cachedWindow)
	f.sets++
	return nil
}

func TestCachedExamWindowRepositoryServesSecondLoadFromCache(t *testing.T) {
	inner := &countingWindowLoader{window: examdomain.ExamWindow{
		Start: examtime.NewDate(2024, 1, 15),
		End:   examtime.NewDate(2024, 1, 19),
	}}
	cache := &fakeWindowCache{}
	repo := NewCachedExamWindowRepository(inner, cache, time.Minute, nil)

	first, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second load must come from cache")
	assert.Equal(t, first, second)
}

func TestCachedExamWindowRepositoryFallsThroughWithoutCache(t *testing.T) {
	inner := &countingWindowLoader{window: examdomain.ExamWindow{
		Start: examtime.NewDate(2024, 1, 15),
		End:   examtime.NewDate(2024, 1, 19),
	}}
	repo := NewCachedExamWindowRepository(inner, nil, time.Minute, nil)

	window, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", window.Start.String())
	assert.Equal(t, 1, inner.calls)

	_, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "without a cache every call must reach inner")
}
