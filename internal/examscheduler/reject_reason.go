package examscheduler

// Reason tags for the three scheduler-level failure modes that precede any
// constraint evaluation (spec §7). A request's final failure reason may
// also be any examconstraint.Reason string (e.g. "difficulty-composition")
// when every candidate slot was rejected by a specific rule instead.
const (
	ReasonNoValidDates         = "no valid dates"
	ReasonNoEligibleRooms      = "no eligible rooms"
	ReasonInsufficientCapacity = "insufficient aggregate capacity"
)
