// Package examscheduler owns the Scheduler: priority ordering, candidate
// enumeration, delegation to the Constraint Engine and room packer, and
// the bookkeeping required to commit a consistent batch of Assignments.
// The Repository Port is the only outward edge; concrete implementations
// live in internal/repository.
package examscheduler

import (
	"context"
	"errors"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
)

// ErrConfigMissing wraps any ExamWindowLoader.Load failure, such as window
// settings that are absent or malformed. Run returns it and aborts before
// any request is examined.
var ErrConfigMissing = errors.New("examscheduler: exam window configuration missing")

// ErrPersistFailed wraps a repository fault at commit time. The run
// becomes Failed and the in-memory ledger is discarded; no partial
// durability is permitted.
var ErrPersistFailed = errors.New("examscheduler: failed to persist assignment batch")

// ExamWindowLoader loads the configured examination window.
type ExamWindowLoader interface {
	Load(ctx context.Context) (examdomain.ExamWindow, error)
}

// RoomFinder resolves room display names to Room records. Names absent
// from the result are simply not eligible; callers never fail because of
// a missing name.
type RoomFinder interface {
	ListByName(ctx context.Context, names []string) (map[string]examdomain.Room, error)
}

// RequestLister returns the pending exam requests in scope for this run,
// optionally filtered to one department.
type RequestLister interface {
	ListPending(ctx context.Context, departmentID *string) ([]examdomain.ExamRequest, error)
}

// AssignmentPersister durably commits one run's worth of Assignments.
// The commit is atomic: either every assignment becomes visible to
// repository readers, or none does.
type AssignmentPersister interface {
	PersistBatch(ctx context.Context, batch []examdomain.Assignment) error
}
