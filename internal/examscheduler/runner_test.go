package examscheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

var testWindow = examdomain.ExamWindow{
	Start: examtime.NewDate(2024, 1, 15),
	End:   examtime.NewDate(2024, 1, 19),
}

func newRunner(rooms map[string]examdomain.Room, requests []examdomain.ExamRequest, persister AssignmentPersister) *ScheduleRunner {
	return NewScheduleRunner(
		fakeWindowLoader{window: testWindow},
		fakeRoomFinder{rooms: rooms},
		fakeRequestLister{requests: requests},
		persister,
		nil, nil,
	)
}

// Scenario 1: single Easy exam, ample capacity.
func TestRunSingleEasyExamAmpleCapacity(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "CS101", StudentCount: 40, DurationMinutes: 90,
		Difficulty: examdomain.Easy, PreferredDates: []examtime.Date{examtime.NewDate(2024, 1, 15)},
		AllowedRoomNames: []string{"R1"},
	}}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scheduled)
	assert.Equal(t, 0, report.Failed)
	a := report.Outcomes[0].Assignment
	assert.Equal(t, "2024-01-15", a.ScheduledDate.String())
	assert.Equal(t, "09:00", a.StartTime.String())
	assert.Equal(t, "10:30", a.EndTime.String())
	assert.Equal(t, "room-1", a.PrimaryRoomID)
	assert.Empty(t, a.AdditionalRoomIDs)
	require.Len(t, persister.committed, 1)
}

// Scenario 2: a Hard exam locks the day; the Easy exam falls through to
// the next preferred-free weekday.
func TestRunHardExamLocksDay(t *testing.T) {
	rooms := map[string]examdomain.Room{
		"R1": {ID: "room-1", Name: "R1", Capacity: 50, Active: true},
		"R2": {ID: "room-2", Name: "R2", Capacity: 50, Active: true},
	}
	preferred := []examtime.Date{examtime.NewDate(2024, 1, 15)}
	requests := []examdomain.ExamRequest{
		{ID: "A", CourseCode: "A", StudentCount: 30, DurationMinutes: 60, Difficulty: examdomain.Hard, PreferredDates: preferred, AllowedRoomNames: []string{"R1", "R2"}},
		{ID: "B", CourseCode: "B", StudentCount: 20, DurationMinutes: 60, Difficulty: examdomain.Easy, PreferredDates: preferred, AllowedRoomNames: []string{"R1", "R2"}},
	}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scheduled)
	assert.Equal(t, 0, report.Failed)

	var aOutcome, bOutcome Outcome
	for _, o := range report.Outcomes {
		switch o.RequestID {
		case "A":
			aOutcome = o
		case "B":
			bOutcome = o
		}
	}
	assert.Equal(t, "2024-01-15", aOutcome.Assignment.ScheduledDate.String())
	assert.Equal(t, "2024-01-16", bOutcome.Assignment.ScheduledDate.String())
}

// Scenario 3: capacity split across two rooms.
func TestRunCapacitySplitAcrossTwoRooms(t *testing.T) {
	rooms := map[string]examdomain.Room{
		"R1": {ID: "room-1", Name: "R1", Capacity: 40, Active: true},
		"R2": {ID: "room-2", Name: "R2", Capacity: 40, Active: true},
		"R3": {ID: "room-3", Name: "R3", Capacity: 40, Active: true},
	}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "X", StudentCount: 75, DurationMinutes: 90,
		Difficulty: examdomain.Normal, PreferredDates: []examtime.Date{examtime.NewDate(2024, 1, 15)},
		AllowedRoomNames: []string{"R1", "R2", "R3"},
	}}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scheduled)
	a := report.Outcomes[0].Assignment
	assert.Equal(t, "room-1", a.PrimaryRoomID)
	assert.Equal(t, []string{"room-2"}, a.AdditionalRoomIDs)
	assert.Equal(t, "09:00", a.StartTime.String())
	assert.Equal(t, "10:30", a.EndTime.String())
}

// Scenario 4: Friday midday avoidance.
func TestRunFridayMiddayAvoidance(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "X", StudentCount: 10, DurationMinutes: 60,
		Difficulty: examdomain.Easy, PreferredDates: []examtime.Date{examtime.NewDate(2024, 1, 19)},
		AllowedRoomNames: []string{"R1"},
	}}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scheduled)
	assert.Equal(t, "09:00", report.Outcomes[0].Assignment.StartTime.String())
}

// Scenario 5: gap enforcement.
func TestRunGapEnforcement(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	date := []examtime.Date{examtime.NewDate(2024, 1, 15)}
	requests := []examdomain.ExamRequest{
		{ID: "X", CourseCode: "X", StudentCount: 10, DurationMinutes: 90, Difficulty: examdomain.Easy, PreferredDates: date, AllowedRoomNames: []string{"R1"}},
		{ID: "Y", CourseCode: "Y", StudentCount: 10, DurationMinutes: 60, Difficulty: examdomain.Easy, PreferredDates: date, AllowedRoomNames: []string{"R1"}},
	}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, report.Scheduled)

	var yOutcome Outcome
	for _, o := range report.Outcomes {
		if o.RequestID == "Y" {
			yOutcome = o
		}
	}
	assert.Equal(t, "10:45", yOutcome.Assignment.StartTime.String())
}

// Scenario 6: infeasible, insufficient aggregate capacity.
func TestRunInsufficientAggregateCapacity(t *testing.T) {
	rooms := map[string]examdomain.Room{
		"R1": {ID: "room-1", Name: "R1", Capacity: 30, Active: true},
		"R2": {ID: "room-2", Name: "R2", Capacity: 30, Active: true},
	}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "X", StudentCount: 100, DurationMinutes: 90,
		Difficulty: examdomain.Normal, AllowedRoomNames: []string{"R1", "R2"},
	}}
	persister := &fakeAssignmentPersister{}
	runner := newRunner(rooms, requests, persister)

	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scheduled)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, ReasonInsufficientCapacity, report.Outcomes[0].Reason)
	assert.Empty(t, persister.committed)
}

func TestRunEmptyRequestSetProducesEmptyReport(t *testing.T) {
	persister := &fakeAssignmentPersister{}
	runner := newRunner(nil, nil, persister)
	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scheduled)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, persister.committed)
}

func TestRunDeterministicAcrossRepeatedRuns(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	requests := []examdomain.ExamRequest{
		{ID: "req-1", CourseCode: "X", StudentCount: 10, DurationMinutes: 60, Difficulty: examdomain.Easy, AllowedRoomNames: []string{"R1"}},
		{ID: "req-2", CourseCode: "Y", StudentCount: 10, DurationMinutes: 60, Difficulty: examdomain.Normal, AllowedRoomNames: []string{"R1"}},
	}

	run := func() RunReport {
		persister := &fakeAssignmentPersister{}
		runner := newRunner(rooms, requests, persister)
		report, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)
		return report
	}

	first := run()
	second := run()
	require.Len(t, first.Outcomes, len(second.Outcomes))
	for i := range first.Outcomes {
		assert.Equal(t, first.Outcomes[i].RequestID, second.Outcomes[i].RequestID)
		assert.Equal(t, first.Outcomes[i].Assignment, second.Outcomes[i].Assignment)
	}
}

func TestRunNoValidDatesWhenPreferredOutsideWindow(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "X", StudentCount: 10, DurationMinutes: 60, Difficulty: examdomain.Easy,
		AllowedRoomNames: []string{"R1"},
	}}
	runner := NewScheduleRunner(
		fakeWindowLoader{window: examdomain.ExamWindow{Start: examtime.NewDate(2024, 1, 20), End: examtime.NewDate(2024, 1, 20)}},
		fakeRoomFinder{rooms: rooms},
		fakeRequestLister{requests: requests},
		&fakeAssignmentPersister{},
		nil, nil,
	)
	report, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, ReasonNoValidDates, report.Outcomes[0].Reason)
}

func TestRunConfigMissingAbortsRun(t *testing.T) {
	runner := NewScheduleRunner(
		fakeWindowLoader{err: ErrConfigMissing},
		fakeRoomFinder{},
		fakeRequestLister{},
		&fakeAssignmentPersister{},
		nil, nil,
	)
	_, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestRunPersistFailureDiscardsPartialState(t *testing.T) {
	rooms := map[string]examdomain.Room{"R1": {ID: "room-1", Name: "R1", Capacity: 60, Active: true}}
	requests := []examdomain.ExamRequest{{
		ID: "req-1", CourseCode: "X", StudentCount: 10, DurationMinutes: 60, Difficulty: examdomain.Easy,
		PreferredDates: []examtime.Date{examtime.NewDate(2024, 1, 15)}, AllowedRoomNames: []string{"R1"},
	}}
	persister := &fakeAssignmentPersister{err: assertErr{}}
	runner := newRunner(rooms, requests, persister)

	_, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistFailed)
	assert.Empty(t, persister.committed)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
