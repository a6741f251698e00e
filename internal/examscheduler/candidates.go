package examscheduler

import (
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examconstraint"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

// startStrideMinutes is the fixed 15-minute stride the Scheduler uses to
// generate candidate start times within a day.
const startStrideMinutes = 15

// candidateDates returns, for the given request, its preferred dates in
// original order filtered to weekdays inside the window, followed by all
// remaining window weekdays in ascending order not already listed.
func candidateDates(req examdomain.ExamRequest, window examdomain.ExamWindow) []examtime.Date {
	seen := make(map[examtime.Date]struct{})
	var dates []examtime.Date

	for _, d := range req.PreferredDates {
		if !window.Contains(d) {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		dates = append(dates, d)
		seen[d] = struct{}{}
	}
	for _, d := range window.Weekdays() {
		if _, ok := seen[d]; ok {
			continue
		}
		dates = append(dates, d)
		seen[d] = struct{}{}
	}
	return dates
}

// candidateStarts returns the pre-filtered start times for duration on
// date: a 15-minute stride beginning at 09:00, stopping once start+
// duration would exceed 17:00, surviving only the window-membership,
// working-hours and forbidden-interval predicates (rules 1-3 of spec
// §4.4) — the cheap checks that don't need the running ledger.
func candidateStarts(req examdomain.ExamRequest, window examdomain.ExamWindow, date examtime.Date) []examtime.Clock {
	duration := req.DurationMinutes
	var starts []examtime.Clock
	for start := examconstraint.WorkingHoursStart; ; start = start.AddMinutes(startStrideMinutes) {
		end := start.AddMinutes(duration)
		if end > examconstraint.WorkingHoursEnd {
			break
		}
		c := examconstraint.Candidate{Request: req, Window: window, Date: date, Start: start, End: end}
		if feasiblePreFilter(c) {
			starts = append(starts, start)
		}
	}
	return starts
}

// feasiblePreFilter applies rules 1-3 only; rules 4-6 need the ledger and
// proposed room-set and are left to the full IsFeasible check once the
// packer has produced candidate rooms.
func feasiblePreFilter(c examconstraint.Candidate) bool {
	if !c.Window.Contains(c.Date) {
		return false
	}
	if c.Start < examconstraint.WorkingHoursStart || c.End > examconstraint.WorkingHoursEnd {
		return false
	}
	if examtime.Overlaps(c.Start, c.End, examconstraint.LunchBreakStart, examconstraint.LunchBreakEnd) {
		return false
	}
	if c.Date.Weekday() == 4 && examtime.Overlaps(c.Start, c.End, examconstraint.FridayPrayerStart, examconstraint.FridayPrayerEnd) {
		return false
	}
	return true
}
