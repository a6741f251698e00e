package examscheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
)

func TestOrderByPriorityDifficultyDominates(t *testing.T) {
	requests := []examdomain.ExamRequest{
		{ID: "b", Difficulty: examdomain.Easy},
		{ID: "a", Difficulty: examdomain.Hard},
	}
	ordered := orderByPriority(requests)
	assert.Equal(t, "a", ordered[0].ID)
}

func TestOrderByPriorityTieBreaksByID(t *testing.T) {
	requests := []examdomain.ExamRequest{
		{ID: "z", Difficulty: examdomain.Normal, DurationMinutes: 60},
		{ID: "a", Difficulty: examdomain.Normal, DurationMinutes: 60},
	}
	ordered := orderByPriority(requests)
	assert.Equal(t, "a", ordered[0].ID)
	assert.Equal(t, "z", ordered[1].ID)
}

func TestOrderByPriorityFullTuple(t *testing.T) {
	requests := []examdomain.ExamRequest{
		{ID: "low", Difficulty: examdomain.Normal, DurationMinutes: 60, NeedsComputer: false, StudentCount: 10},
		{ID: "high", Difficulty: examdomain.Normal, DurationMinutes: 120, NeedsComputer: true, StudentCount: 90},
	}
	ordered := orderByPriority(requests)
	assert.Equal(t, "high", ordered[0].ID)
}
