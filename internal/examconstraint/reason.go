// Package examconstraint implements the pure feasibility predicates the
// Scheduler composes through a single IsFeasible entry point. No
// predicate here performs I/O or mutates its inputs.
package examconstraint

// Reason identifies which rule rejected a candidate slot. The numbering
// matches the evaluation order of spec §4.4 (cheapest-first).
type Reason int

const (
	// ReasonNone is the zero value; only meaningful paired with Feasible=true.
	ReasonNone Reason = iota
	ReasonWindow
	ReasonWorkingHours
	ReasonForbiddenInterval
	ReasonDifficultyComposition
	ReasonClassLevelConflict
	ReasonMinimumGap
)

// String renders a stable, lowercase rejection tag suitable for run
// reports and logs.
func (r Reason) String() string {
	switch r {
	case ReasonWindow:
		return "window-membership"
	case ReasonWorkingHours:
		return "working-hours"
	case ReasonForbiddenInterval:
		return "forbidden-interval"
	case ReasonDifficultyComposition:
		return "difficulty-composition"
	case ReasonClassLevelConflict:
		return "class-level-conflict"
	case ReasonMinimumGap:
		return "minimum-gap"
	default:
		return "none"
	}
}

// Result is the sum-typed outcome of a feasibility check: either
// Feasible, or Rejected carrying the first rule that failed. Feasibility
// errors are values, not exceptions, per the design notes in spec §9.
type Result struct {
	Feasible bool
	Reason   Reason
}

// Accepted is the Feasible result.
func Accepted() Result { return Result{Feasible: true} }

// Rejected builds a Result carrying the given reason.
func Rejected(reason Reason) Result { return Result{Feasible: false, Reason: reason} }
