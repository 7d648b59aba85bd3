package feasibility

import (
	"fmt"

	"github.com/derekprior/gridlock/internal/state"
)

const warnReserveRatio = 0.80

// checkDivisionReserve is the Stage D rolling forecast for each division:
// outstanding intra-division games against the pool of legal week-windows
// still open to those pairs. This is a pooled estimate with no matching
// performed, so an UNSAT is trustworthy while a pass is only advisory.
func checkDivisionReserve(s *state.State) []Result {
	var results []Result

	for _, div := range s.League.Divisions() {
		demand := 0
		windows := 0
		for i := 0; i < len(div.Teams); i++ {
			for j := i + 1; j < len(div.Teams); j++ {
				a, b := div.Teams[i], div.Teams[j]
				p, ok := s.Pairs[state.PairKey(a, b)]
				if !ok || p.Remaining == 0 {
					continue
				}
				demand += p.Remaining
				windows += pairWindows(s, a, b)
			}
		}
		if demand == 0 {
			continue
		}

		r := Result{
			Stage:      StageD,
			Constraint: ConstraintDivisionReserve,
			Details: &Details{
				Needed:        demand,
				Capacity:      windows,
				AffectedTeams: div.Teams,
			},
		}
		switch {
		case demand > windows:
			r.Level = LevelUnsat
			r.Message = fmt.Sprintf("%s still owes %d division games but only %d legal week-windows remain", div.Name, demand, windows)
		case float64(demand) > warnReserveRatio*float64(windows):
			r.Level = LevelWarning
			r.Message = fmt.Sprintf("%s division reserve is tight: %d games for %d legal week-windows", div.Name, demand, windows)
		default:
			continue
		}
		results = append(results, r)
	}

	return results
}

// pairWindows counts the weeks where both teams are free and the rematch
// gap is satisfied.
func pairWindows(s *state.State, a, b string) int {
	ta, tb := s.Teams[a], s.Teams[b]
	last, met := ta.LastMet[b]
	count := 0
	for _, w := range s.WeekNumbers() {
		if _, busy := ta.Busy[w]; busy {
			continue
		}
		if _, busy := tb.Busy[w]; busy {
			continue
		}
		if met && w-last < s.Rules.MinRematchGap {
			continue
		}
		count++
	}
	return count
}

// checkTeamReserve compares each team's outstanding obligations (remaining
// games plus the bye it still owes) against its free weeks. Raw
// availability only; opponent legality is ignored, so this reports UNSAT
// exactly and never warns.
func checkTeamReserve(s *state.State) []Result {
	var results []Result

	for _, id := range s.TeamIDs() {
		t := s.Teams[id]
		demand := clampPositive(t.Remain.Total)
		if t.Remain.ByeNeeded {
			demand++
		}
		free := s.Rules.Weeks - len(t.Busy)
		if demand <= free {
			continue
		}
		results = append(results, Result{
			Level:      LevelUnsat,
			Stage:      StageD,
			Constraint: ConstraintTeamReserve,
			Message:    fmt.Sprintf("%s has %d obligations left but only %d free weeks", id, demand, free),
			Details: &Details{
				Needed:        demand,
				Capacity:      free,
				AffectedTeams: []string{id},
			},
		})
	}

	return results
}
