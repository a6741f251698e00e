package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRunInProgress is returned when a scheduling run is already holding
// the lock for the requested scope.
var ErrRunInProgress = errors.New("exam schedule run already in progress for this scope")

const examRunLockTTL = 5 * time.Minute

// ExamSchedulerLock serializes concurrent scheduling runs per department
// using a Redis SETNX lock, the caller-side discipline SPEC_FULL §5
// describes: the engine itself needs no internal locking since DayLedger
// is owned by a single in-memory run.
type ExamSchedulerLock struct {
	client *redis.Client
}

// NewExamSchedulerLock constructs the lock. A nil client disables
// locking; every Acquire call then succeeds immediately, which is
// acceptable for single-process deployments and tests.
func NewExamSchedulerLock(client *redis.Client) *ExamSchedulerLock {
	return &ExamSchedulerLock{client: client}
}

// Acquire attempts to take the lock for scope (a department id, or
// "global" when no filter was given). It returns a release function to
// be deferred, or ErrRunInProgress if another run currently holds it.
func (l *ExamSchedulerLock) Acquire(ctx context.Context, scope string) (func(), error) {
	if l.client == nil {
		return func() {}, nil
	}

	key := lockKey(scope)
	ok, err := l.client.SetNX(ctx, key, "1", examRunLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire exam schedule lock for %s: %w", scope, err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}

	return func() {
		_ = l.client.Del(context.Background(), key).Err()
	}, nil
}

func lockKey(scope string) string {
	if scope == "" {
		scope = "global"
	}
	return "exam:schedule:lock:" + scope
}
