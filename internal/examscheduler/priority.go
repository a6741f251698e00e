package examscheduler

import (
	"sort"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
)

// orderByPriority sorts requests by the tuple described in spec §4.5,
// higher priority first, ties broken by ascending request id for
// determinism. requests is sorted in place and also returned.
func orderByPriority(requests []examdomain.ExamRequest) []examdomain.ExamRequest {
	sort.SliceStable(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if a.Difficulty.Rank() != b.Difficulty.Rank() {
			return a.Difficulty.Rank() > b.Difficulty.Rank()
		}
		if a.DurationBucket() != b.DurationBucket() {
			return a.DurationBucket() > b.DurationBucket()
		}
		if needsComputerWeight(a) != needsComputerWeight(b) {
			return needsComputerWeight(a) > needsComputerWeight(b)
		}
		aStudents, bStudents := studentWeight(a), studentWeight(b)
		if aStudents != bStudents {
			return aStudents > bStudents
		}
		if a.FlexibilityPenalty() != b.FlexibilityPenalty() {
			return a.FlexibilityPenalty() > b.FlexibilityPenalty()
		}
		return a.ID < b.ID
	})
	return requests
}

func needsComputerWeight(r examdomain.ExamRequest) int {
	if r.NeedsComputer {
		return 1
	}
	return 0
}

func studentWeight(r examdomain.ExamRequest) float64 {
	return float64(r.StudentCount) / 100
}
