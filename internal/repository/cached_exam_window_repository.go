package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

const examWindowCacheKey = "exam:window:active"

// ExamWindowLoader is the narrow read port CachedExamWindowRepository
// decorates; satisfied by *ExamWindowRepository.
type ExamWindowLoader interface {
	Load(ctx context.Context) (examdomain.ExamWindow, error)
}

// WindowCache is the read-through cache port the decorator stores the
// active window behind. Get reports whether the key was present;
// satisfied by *service.CacheService.
type WindowCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cachedWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CachedExamWindowRepository wraps an ExamWindowLoader with a read-through
// cache: the active window changes rarely, so every run otherwise pays a
// database round trip before the candidate search can even begin.
type CachedExamWindowRepository struct {
	inner  ExamWindowLoader
	cache  WindowCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedExamWindowRepository constructs the decorator. A nil cache
// makes every call fall through to inner.
func NewCachedExamWindowRepository(inner ExamWindowLoader, cache WindowCache, ttl time.Duration, logger *zap.Logger) *CachedExamWindowRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedExamWindowRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Load returns the cached active window when present, otherwise loads it
// from inner and populates the cache for subsequent calls.
func (r *CachedExamWindowRepository) Load(ctx context.Context) (examdomain.ExamWindow, error) {
	if r.cache == nil {
		return r.inner.Load(ctx)
	}

	var cached cachedWindow
	hit, err := r.cache.Get(ctx, examWindowCacheKey, &cached)
	if err != nil {
		r.logger.Warn("exam window cache read failed", zap.Error(err))
	}
	if hit {
		if window, decodeErr := decodeCachedWindow(cached); decodeErr == nil {
			return window, nil
		}
		r.logger.Warn("exam window cache entry malformed, reloading")
	}

	window, err := r.inner.Load(ctx)
	if err != nil {
		return examdomain.ExamWindow{}, err
	}

	if cacheErr := r.cache.Set(ctx, examWindowCacheKey, cachedWindow{Start: window.Start.String(), End: window.End.String()}, r.ttl); cacheErr != nil {
		r.logger.Warn("exam window cache write failed", zap.Error(cacheErr))
	}
	return window, nil
}

func decodeCachedWindow(c cachedWindow) (examdomain.ExamWindow, error) {
	start, err := examtime.ParseDate(c.Start)
	if err != nil {
		return examdomain.ExamWindow{}, err
	}
	end, err := examtime.ParseDate(c.End)
	if err != nil {
		return examdomain.ExamWindow{}, err
	}
	return examdomain.ExamWindow{Start: start, End: end}, nil
}
