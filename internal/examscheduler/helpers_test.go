package examscheduler

import (
	"context"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

func mustClock(hour, minute int) examtime.Clock {
	return examtime.MustClock(hour, minute)
}

func examdomainTestDate() examtime.Date {
	return examtime.NewDate(2024, 1, 15)
}

// --- in-memory Repository Port fakes ---

type fakeWindowLoader struct {
	window examdomain.ExamWindow
	err    error
}

func (f fakeWindowLoader) Load(ctx context.Context) (examdomain.ExamWindow, error) {
	return f.window, f.err
}

type fakeRoomFinder struct {
	rooms map[string]examdomain.Room
}

func (f fakeRoomFinder) ListByName(ctx context.Context, names []string) (map[string]examdomain.Room, error) {
	result := make(map[string]examdomain.Room, len(names))
	for _, name := range names {
		if room, ok := f.rooms[name]; ok {
			result[name] = room
		}
	}
	return result, nil
}

type fakeRequestLister struct {
	requests []examdomain.ExamRequest
}

func (f fakeRequestLister) ListPending(ctx context.Context, departmentID *string) ([]examdomain.ExamRequest, error) {
	if departmentID == nil {
		return f.requests, nil
	}
	var filtered []examdomain.ExamRequest
	for _, r := range f.requests {
		if r.DepartmentID == *departmentID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

type fakeAssignmentPersister struct {
	committed [][]examdomain.Assignment
	err       error
}

func (f *fakeAssignmentPersister) PersistBatch(ctx context.Context, batch []examdomain.Assignment) error {
	if f.err != nil {
		return f.err
	}
	f.committed = append(f.committed, batch)
	return nil
}
