package examconstraint

import (
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

// Working hours and forbidden-interval bounds are hard-coded institutional
// policy, intentionally not parameterized in the core (spec §4.4
// rationale notes).
var (
	WorkingHoursStart = examtime.MustClock(9, 0)
	WorkingHoursEnd   = examtime.MustClock(17, 0)

	LunchBreakStart = examtime.MustClock(12, 15)
	LunchBreakEnd   = examtime.MustClock(13, 0)

	FridayPrayerStart = examtime.MustClock(12, 0)
	FridayPrayerEnd   = examtime.MustClock(13, 30)

	// fridayWeekday is the Weekday() value (Monday=0) for Friday.
	fridayWeekday = 4

	// MinimumGapMinutes is the required separation between two exams
	// sharing at least one room.
	MinimumGapMinutes = 15
)

// Candidate bundles the inputs IsFeasible evaluates: the request under
// consideration, the candidate date and time range, and the room-set the
// packer proposed for it.
type Candidate struct {
	Request         examdomain.ExamRequest
	Window          examdomain.ExamWindow
	Date            examtime.Date
	Start           examtime.Clock
	End             examtime.Clock
	ProposedRoomIDs []string
}

// IsFeasible evaluates the conjunction of rules 1-6 from spec §4.4,
// short-circuiting on the first false. ledger reflects every placement
// committed so far in the current run.
func IsFeasible(c Candidate, ledger *examdomain.DayLedger) Result {
	if r := checkWindow(c); !r.Feasible {
		return r
	}
	if r := checkWorkingHours(c); !r.Feasible {
		return r
	}
	if r := checkForbiddenInterval(c); !r.Feasible {
		return r
	}
	if r := checkDifficultyComposition(c, ledger); !r.Feasible {
		return r
	}
	if r := checkClassLevelConflict(c, ledger); !r.Feasible {
		return r
	}
	if r := checkMinimumGap(c, ledger); !r.Feasible {
		return r
	}
	return Accepted()
}

// 1. Window membership.
func checkWindow(c Candidate) Result {
	if !c.Window.Contains(c.Date) {
		return Rejected(ReasonWindow)
	}
	return Accepted()
}

// 2. Working hours.
func checkWorkingHours(c Candidate) Result {
	if c.Start < WorkingHoursStart || c.End > WorkingHoursEnd {
		return Rejected(ReasonWorkingHours)
	}
	return Accepted()
}

// 3. Forbidden midday interval, plus the Friday prayer window.
func checkForbiddenInterval(c Candidate) Result {
	if examtime.Overlaps(c.Start, c.End, LunchBreakStart, LunchBreakEnd) {
		return Rejected(ReasonForbiddenInterval)
	}
	if c.Date.Weekday() == fridayWeekday && examtime.Overlaps(c.Start, c.End, FridayPrayerStart, FridayPrayerEnd) {
		return Rejected(ReasonForbiddenInterval)
	}
	return Accepted()
}

// 4. Difficulty composition per day: a Hard exam locks the day; Normal
// and Easy exams may mix freely on non-Hard days.
func checkDifficultyComposition(c Candidate, ledger *examdomain.DayLedger) Result {
	placed := len(ledger.Placements(c.Date))
	switch c.Request.Difficulty {
	case examdomain.Hard:
		if placed > 0 {
			return Rejected(ReasonDifficultyComposition)
		}
	case examdomain.Normal, examdomain.Easy:
		if ledger.HasHard(c.Date) {
			return Rejected(ReasonDifficultyComposition)
		}
	}
	return Accepted()
}

// 5. Class-level conflict: no two placements sharing (department, class
// level) may overlap in time on the same date.
func checkClassLevelConflict(c Candidate, ledger *examdomain.DayLedger) Result {
	for _, p := range ledger.Placements(c.Date) {
		if p.Request.DepartmentID != c.Request.DepartmentID || p.Request.ClassLevel != c.Request.ClassLevel {
			continue
		}
		if examtime.Overlaps(c.Start, c.End, p.Assignment.StartTime, p.Assignment.EndTime) {
			return Rejected(ReasonClassLevelConflict)
		}
	}
	return Accepted()
}

// 6. Minimum gap: placements sharing at least one room with the
// candidate's proposed room-set must be at least MinimumGapMinutes away.
func checkMinimumGap(c Candidate, ledger *examdomain.DayLedger) Result {
	for _, p := range ledger.Placements(c.Date) {
		if !sharesRoom(p.Assignment.RoomIDs(), c.ProposedRoomIDs) {
			continue
		}
		if examtime.Overlaps(c.Start, c.End, p.Assignment.StartTime, p.Assignment.EndTime) {
			return Rejected(ReasonMinimumGap)
		}
		gap := directionalGap(c.Start, c.End, p.Assignment.StartTime, p.Assignment.EndTime)
		if gap < MinimumGapMinutes {
			return Rejected(ReasonMinimumGap)
		}
	}
	return Accepted()
}

func directionalGap(aStart, aEnd, bStart, bEnd examtime.Clock) int {
	if aEnd <= bStart {
		return examtime.GapMinutes(aEnd, bStart)
	}
	return examtime.GapMinutes(bEnd, aStart)
}

func sharesRoom(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
