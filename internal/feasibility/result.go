// Package feasibility decides whether a partially-built schedule can still
// be completed, running staged necessary-condition checks over a state
// snapshot. A clean result list proves nothing about sufficiency; an UNSAT
// proves the schedule cannot be completed.
package feasibility

// Level is the severity of a finding. The zero value means no finding;
// a schedule with an empty result list passes every current check.
type Level int

const (
	LevelWarning Level = iota + 1
	LevelUnsat
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "WARNING"
	case LevelUnsat:
		return "UNSAT"
	default:
		return "OK"
	}
}

// Stage identifies which checking tier produced a result. C and E are
// reserved for future tiers between the bounds checks and the heuristics.
type Stage string

const (
	StageA Stage = "A" // aggregate bounds
	StageB Stage = "B" // local pairing counts
	StageD Stage = "D" // reserve heuristics
)

// Constraint is a stable tag naming the violated rule, for grouping and
// display downstream.
type Constraint string

const (
	ConstraintTotalCapacity   Constraint = "TOTAL_CAPACITY"
	ConstraintDivCapacity     Constraint = "DIV_CAPACITY"
	ConstraintIntraCapacity   Constraint = "INTRA_CAPACITY"
	ConstraintInterCapacity   Constraint = "INTER_CAPACITY"
	ConstraintByeCapacity     Constraint = "BYE_CAPACITY"
	ConstraintHomeCapacity    Constraint = "HOME_CAPACITY"
	ConstraintPrimeTime       Constraint = "PRIME_TIME"
	ConstraintWeekPairing     Constraint = "WEEK_PAIRING"
	ConstraintDivisionReserve Constraint = "DIVISION_RESERVE"
	ConstraintTeamReserve     Constraint = "TEAM_RESERVE"
)

// Details carries the numbers behind a finding.
type Details struct {
	Needed        int
	Capacity      int
	AffectedTeams []string
	AffectedWeeks []int
}

// Result is a single feasibility finding.
type Result struct {
	Level      Level
	Stage      Stage
	Constraint Constraint
	Message    string
	Details    *Details
}

// IsUnsatisfiable reports whether any result proves the schedule cannot
// be completed.
func IsUnsatisfiable(results []Result) bool {
	for _, r := range results {
		if r.Level == LevelUnsat {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any result is a warning.
func HasWarnings(results []Result) bool {
	for _, r := range results {
		if r.Level == LevelWarning {
			return true
		}
	}
	return false
}

// MostSevere returns the highest-severity result, preferring earlier
// results on ties. Returns nil for an empty list.
func MostSevere(results []Result) *Result {
	var best *Result
	for i := range results {
		if best == nil || results[i].Level > best.Level {
			best = &results[i]
		}
	}
	return best
}

// GroupByConstraint buckets results by their constraint tag, preserving
// order within each bucket.
func GroupByConstraint(results []Result) map[Constraint][]Result {
	groups := make(map[Constraint][]Result)
	for _, r := range results {
		groups[r.Constraint] = append(groups[r.Constraint], r)
	}
	return groups
}
