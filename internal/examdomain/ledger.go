package examdomain

import (
	"sort"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

// Placement pairs a committed Assignment with the ExamRequest it
// satisfies, as recorded by the DayLedger.
type Placement struct {
	Assignment Assignment
	Request    ExamRequest
}

// interval is a half-open [Start, End) time range used by the room
// occupancy index.
type interval struct {
	start, end examtime.Clock
}

type dayState struct {
	placements []Placement
	counters   [3]int // indexed by Difficulty
	rooms      map[string][]interval
}

// DayLedger is the in-memory, per-date bookkeeping the Scheduler owns for
// the duration of one run. It tracks exactly the placements committed so
// far so the Constraint Engine can evaluate composition and gap rules
// against the running state. DayLedger is not safe for concurrent use;
// the Scheduler holds exclusive ownership per §5 of the specification.
type DayLedger struct {
	days map[examtime.Date]*dayState
}

// NewDayLedger returns an empty ledger.
func NewDayLedger() *DayLedger {
	return &DayLedger{days: make(map[examtime.Date]*dayState)}
}

func (l *DayLedger) stateFor(date examtime.Date) *dayState {
	s, ok := l.days[date]
	if !ok {
		s = &dayState{rooms: make(map[string][]interval)}
		l.days[date] = s
	}
	return s
}

// Placements returns the placements recorded for date, in commit order.
func (l *DayLedger) Placements(date examtime.Date) []Placement {
	if s, ok := l.days[date]; ok {
		return s.placements
	}
	return nil
}

// DifficultyCount returns how many placements of the given difficulty
// exist for date.
func (l *DayLedger) DifficultyCount(date examtime.Date, d Difficulty) int {
	if s, ok := l.days[date]; ok {
		return s.counters[d]
	}
	return 0
}

// HasHard reports whether date already carries a Hard placement.
func (l *DayLedger) HasHard(date examtime.Date) bool {
	return l.DifficultyCount(date, Hard) > 0
}

// RoomIntervals returns the committed [start,end) intervals for roomID on
// date, sorted by start time.
func (l *DayLedger) RoomIntervals(date examtime.Date, roomID string) []interval {
	s, ok := l.days[date]
	if !ok {
		return nil
	}
	return s.rooms[roomID]
}

// RoomOccupied reports whether roomID has any committed interval on date
// overlapping [start, end).
func (l *DayLedger) RoomOccupied(date examtime.Date, roomID string, start, end examtime.Clock) bool {
	for _, iv := range l.RoomIntervals(date, roomID) {
		if examtime.Overlaps(start, end, iv.start, iv.end) {
			return true
		}
	}
	return false
}

// Commit records a new placement: it increments the difficulty counter,
// appends the (request, assignment) pair and indexes the room intervals
// used by the assignment. Callers (the Scheduler) must have already
// established feasibility; Commit performs no checks of its own.
func (l *DayLedger) Commit(req ExamRequest, assignment Assignment) {
	s := l.stateFor(assignment.ScheduledDate)
	s.placements = append(s.placements, Placement{Assignment: assignment, Request: req})
	s.counters[req.Difficulty]++

	iv := interval{start: assignment.StartTime, end: assignment.EndTime}
	for _, roomID := range assignment.RoomIDs() {
		s.rooms[roomID] = append(s.rooms[roomID], iv)
		sort.Slice(s.rooms[roomID], func(i, j int) bool {
			return s.rooms[roomID][i].start < s.rooms[roomID][j].start
		})
	}
}
