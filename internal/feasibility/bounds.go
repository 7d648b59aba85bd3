package feasibility

import (
	"fmt"
	"sort"

	"github.com/derekprior/gridlock/internal/state"
)

// Warn thresholds: demand above this fraction of supply is reported as
// tight even though a completion may still exist.
const (
	warnTotalRatio = 0.95
	warnCatRatio   = 0.90
	warnByeRatio   = 0.80
	warnHomeRatio  = 0.95
	warnPrimeRatio = 0.90
)

// checkBounds runs the Stage A pigeonhole checks. Each is an independent
// O(teams) or O(weeks) necessary condition of the form demand > supply.
// Every violated bound is reported, not just the first.
func checkBounds(s *state.State) []Result {
	var results []Result

	openSlots := 0
	byeSlots := 0
	hostable := 0
	nightSlots := 0
	for _, n := range s.WeekNumbers() {
		w := s.Weeks[n]
		openSlots += w.Unfilled()
		hostable += w.HostableSlots - w.Filled
		nightSlots += w.NightSlots
		if n <= s.Rules.ByeCutoff {
			byeSlots += w.ByeCapacity - w.ByesAssigned
		}
	}

	var totalNeed, divNeed, intraNeed, interNeed, homeNeed, primeNeed int
	for _, id := range s.TeamIDs() {
		t := s.Teams[id]
		totalNeed += clampPositive(t.Remain.Total)
		divNeed += clampPositive(t.Remain.Div)
		intraNeed += clampPositive(t.Remain.Intra)
		interNeed += clampPositive(t.Remain.Inter)
		homeNeed += clampPositive(t.Remain.Home)
		primeNeed += clampPositive(s.Rules.MinPrimeTime - t.Night)
	}

	// 1. Total capacity: every game fills one slot but serves two teams.
	games := halfUp(totalNeed)
	if r := boundResult(ConstraintTotalCapacity, games, openSlots, warnTotalRatio,
		fmt.Sprintf("%d games still to place but only %d open slots remain", games, openSlots),
		fmt.Sprintf("slot capacity is tight: %d games for %d open slots", games, openSlots),
	); r != nil {
		results = append(results, *r)
	}

	// 2. Category capacity, run against the shared slot pool. Slots are
	// not category-typed, so each category sees the full pool; this
	// overstates capacity and is a deliberately conservative bound.
	for _, cat := range []struct {
		constraint Constraint
		label      string
		need       int
	}{
		{ConstraintDivCapacity, "division", divNeed},
		{ConstraintIntraCapacity, "intra-conference", intraNeed},
		{ConstraintInterCapacity, "inter-conference", interNeed},
	} {
		games := halfUp(cat.need)
		if r := boundResult(cat.constraint, games, openSlots, warnCatRatio,
			fmt.Sprintf("%d %s games still to place but only %d open slots remain", games, cat.label, openSlots),
			fmt.Sprintf("slot capacity is tight for %s games: %d for %d open slots", cat.label, games, openSlots),
		); r != nil {
			results = append(results, *r)
		}
	}

	// 3. Bye capacity within the bye window.
	byesNeeded := len(s.NeedBye)
	if r := boundResult(ConstraintByeCapacity, byesNeeded, byeSlots, warnByeRatio,
		fmt.Sprintf("%d teams still need a bye but only %d bye slots remain before week %d", byesNeeded, byeSlots, s.Rules.ByeCutoff+1),
		fmt.Sprintf("bye capacity is tight: %d teams for %d remaining bye slots", byesNeeded, byeSlots),
	); r != nil {
		teams := make([]string, 0, len(s.NeedBye))
		for id := range s.NeedBye {
			teams = append(teams, id)
		}
		sort.Strings(teams)
		r.Details.AffectedTeams = teams
		results = append(results, *r)
	}

	// 4. Home/away parity: every remaining home game needs a hostable slot.
	if r := boundResult(ConstraintHomeCapacity, homeNeed, hostable, warnHomeRatio,
		fmt.Sprintf("%d home games still owed but only %d hostable slots remain", homeNeed, hostable),
		fmt.Sprintf("hostable capacity is tight: %d home games for %d slots", homeNeed, hostable),
	); r != nil {
		results = append(results, *r)
	}

	// 5. Prime-time minimums: a night game credits both teams, so the
	// outstanding appearance demand is halved against remaining night
	// slots. The per-team maximum has no pigeonhole form (night slots are
	// capacity, not demand) and stays unenforced.
	primeGames := halfUp(primeNeed)
	if r := boundResult(ConstraintPrimeTime, primeGames, nightSlots, warnPrimeRatio,
		fmt.Sprintf("%d prime-time games still required but only %d night slots remain", primeGames, nightSlots),
		fmt.Sprintf("night capacity is tight: %d prime-time games for %d night slots", primeGames, nightSlots),
	); r != nil {
		results = append(results, *r)
	}

	return results
}

// boundResult builds a Stage A result for a demand/supply pair, or nil if
// the bound holds comfortably.
func boundResult(c Constraint, needed, capacity int, warnRatio float64, unsatMsg, warnMsg string) *Result {
	r := &Result{
		Stage:      StageA,
		Constraint: c,
		Details:    &Details{Needed: needed, Capacity: capacity},
	}
	switch {
	case needed > capacity:
		r.Level = LevelUnsat
		r.Message = unsatMsg
	case needed > 0 && float64(needed) > warnRatio*float64(capacity):
		r.Level = LevelWarning
		r.Message = warnMsg
	default:
		return nil
	}
	return r
}

func clampPositive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// halfUp divides a team-count demand by two, rounding up.
func halfUp(n int) int {
	return (n + 1) / 2
}
