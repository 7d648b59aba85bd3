package feasibility

import (
	"github.com/derekprior/gridlock/internal/league"
	"github.com/derekprior/gridlock/internal/state"
)

func fullLeague() *league.League {
	return league.New("Pro Football League", []league.Conference{
		{Name: "AFC", Divisions: []league.Division{
			{Name: "East", Teams: []string{"BUF", "MIA", "NE", "NYJ"}},
			{Name: "North", Teams: []string{"BAL", "CIN", "CLE", "PIT"}},
			{Name: "South", Teams: []string{"HOU", "IND", "JAX", "TEN"}},
			{Name: "West", Teams: []string{"DEN", "KC", "LAC", "LV"}},
		}},
		{Name: "NFC", Divisions: []league.Division{
			{Name: "East", Teams: []string{"DAL", "NYG", "PHI", "WAS"}},
			{Name: "North", Teams: []string{"CHI", "DET", "GB", "MIN"}},
			{Name: "South", Teams: []string{"ATL", "CAR", "NO", "TB"}},
			{Name: "West", Teams: []string{"ARI", "LAR", "SEA", "SF"}},
		}},
	})
}

func fullState() *state.State {
	return state.New(fullLeague(), league.DefaultRules())
}

// smallLeague is two three-team divisions in one conference, small enough
// to reason about pairing counts by hand.
func smallLeague() *league.League {
	return league.New("Test League", []league.Conference{
		{Name: "Test", Divisions: []league.Division{
			{Name: "A", Teams: []string{"A1", "A2", "A3"}},
			{Name: "B", Teams: []string{"B1", "B2", "B3"}},
		}},
	})
}

func smallRules() league.Rules {
	return league.Rules{
		Weeks:              8,
		GamesPerTeam:       7,
		SlotsPerWeek:       3,
		NightSlotsPerWeek:  1,
		ByeStart:           3,
		ByeCutoff:          6,
		MaxByesPerWeek:     2,
		MinRematchGap:      2,
		MaxConsecutiveHome: 2,
		MaxConsecutiveAway: 2,
		MinPrimeTime:       0,
		MaxPrimeTime:       8,
		DivisionGames:      4,
		IntraGames:         3,
		InterGames:         0,
	}
}

func smallState() *state.State {
	return state.New(smallLeague(), smallRules())
}

func stateWith(lg *league.League, rules league.Rules) *state.State {
	return state.New(lg, rules)
}

// closeWeek zeroes a week's capacity so supply-side bounds can be pushed
// around in tests.
func closeWeek(s *state.State, n int) {
	w := s.Weeks[n]
	w.TotalSlots = 0
	w.DaySlots = 0
	w.NightSlots = 0
	w.HostableSlots = 0
}

func mustPlace(s *state.State, g state.Game) {
	if err := s.PlaceGame(g); err != nil {
		panic(err)
	}
}
