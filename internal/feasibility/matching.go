package feasibility

import (
	"fmt"

	"github.com/derekprior/gridlock/internal/state"
)

// DefaultLookahead is how many weeks past the earliest incomplete week
// Stage B examines.
const DefaultLookahead = 2

// checkWeekPairings is the Stage B local matching check: for each week in
// the look-ahead window it counts the distinct legal pairings among the
// teams still free that week and compares against the open slots. This is
// a candidate count, not a verified matching, so weeks where many
// candidates share a team can evade detection; it remains a necessary
// condition because every slot must be filled by some legal pairing.
func checkWeekPairings(s *state.State, lookahead int) []Result {
	start := 0
	for _, n := range s.WeekNumbers() {
		if s.Weeks[n].Unfilled() > 0 {
			start = n
			break
		}
	}
	if start == 0 {
		return nil
	}

	var results []Result
	for w := start; w <= start+lookahead && w <= s.Rules.Weeks; w++ {
		week, ok := s.Weeks[w]
		if !ok || week.Unfilled() == 0 {
			continue
		}

		var free []string
		for _, id := range s.TeamIDs() {
			if _, busy := s.Teams[id].Busy[w]; !busy {
				free = append(free, id)
			}
		}

		legal := 0
		for i := 0; i < len(free); i++ {
			for j := i + 1; j < len(free); j++ {
				if legalPairing(s, free[i], free[j], w) {
					legal++
				}
			}
		}

		unfilled := week.Unfilled()
		r := Result{
			Stage:      StageB,
			Constraint: ConstraintWeekPairing,
			Details: &Details{
				Needed:        unfilled,
				Capacity:      legal,
				AffectedWeeks: []int{w},
			},
		}
		switch {
		case legal < unfilled:
			r.Level = LevelUnsat
			r.Message = fmt.Sprintf("week %d has %d open slots but only %d legal pairings", w, unfilled, legal)
		case float64(legal) < 1.2*float64(unfilled):
			r.Level = LevelWarning
			r.Message = fmt.Sprintf("week %d is tight: %d legal pairings for %d open slots", w, legal, unfilled)
		default:
			continue
		}
		results = append(results, r)
	}

	return results
}

// legalPairing reports whether a and b could meet in the given week:
// the pair still owes a game, the rematch gap is respected, and at least
// one side can host.
func legalPairing(s *state.State, a, b string, week int) bool {
	p, ok := s.Pairs[state.PairKey(a, b)]
	if !ok || p.Remaining == 0 {
		return false
	}
	if last, met := s.Teams[a].LastMet[b]; met && week-last < s.Rules.MinRematchGap {
		return false
	}
	return canTeamHost(s, a) || canTeamHost(s, b)
}

// canTeamHost reports whether a team has a home game left to give and is
// not at its consecutive-home cap.
func canTeamHost(s *state.State, id string) bool {
	t := s.Teams[id]
	return t.Remain.Home > 0 && t.Streaks.Home < s.Rules.MaxConsecutiveHome
}
