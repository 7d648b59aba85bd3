// Package state holds the mutable schedule aggregate and its mutator.
// Feasibility checks read a Snapshot of it and never write back.
package state

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tiendc/go-deepcopy"

	"github.com/derekprior/gridlock/internal/league"
)

// SlotKind distinguishes day slots from prime-time (night) slots.
type SlotKind int

const (
	SlotDay SlotKind = iota
	SlotNight
)

func (k SlotKind) String() string {
	if k == SlotNight {
		return "night"
	}
	return "day"
}

// Game is a placed matchup. Week and both team ids must exist in the state.
type Game struct {
	ID   string
	Week int
	Home string
	Away string
	Slot SlotKind
}

// Bye marks a team's off week.
type Bye struct {
	Team string
	Week int
}

// Occupant records what a team is doing in a given week: a game (by id)
// or a bye. A week has at most one occupant per team.
type Occupant struct {
	GameID string
	Bye    bool
}

// TeamRemaining tracks a team's outstanding obligations.
// Invariants: Total == Div+Intra+Inter and Total == Home+Away.
type TeamRemaining struct {
	Total int
	Div   int
	Intra int
	Inter int
	Home  int
	Away  int

	ByeNeeded bool
}

// TeamStreaks counts consecutive same-venue games ending at the team's
// latest occupied week. At most one of the two is nonzero; a bye resets both.
type TeamStreaks struct {
	Home int
	Away int
}

type TeamState struct {
	ID      string
	Remain  TeamRemaining
	Streaks TeamStreaks

	// Busy maps week number to the occupying game or bye.
	Busy map[int]Occupant
	// LastMet maps opponent id to the latest week the pair has a game.
	LastMet map[string]int
	// Night counts placed prime-time appearances.
	Night int
}

type WeekState struct {
	Number int

	TotalSlots int
	Filled     int
	// DaySlots and NightSlots are the remaining capacity by timeslot kind.
	DaySlots   int
	NightSlots int
	// HostableSlots is the capacity that can seat a home team. Normally
	// equals TotalSlots.
	HostableSlots int

	ByeCapacity  int
	ByesAssigned int

	Games []Game
	Byes  []Bye
}

// Unfilled returns the number of open game slots in the week.
func (w *WeekState) Unfilled() int {
	return w.TotalSlots - w.Filled
}

// PairNeed is the outstanding game obligation for an unordered team pair.
type PairNeed struct {
	Category  league.Category
	Required  int
	Remaining int
}

// PairKey returns the canonical "lowID:highID" key for an unordered pair,
// so lookups are direction-independent.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// State is the schedule aggregate. The Games and Byes lists are
// materialized views of the per-team and per-week structures; every
// mutation keeps all views consistent in one transaction.
type State struct {
	League *league.League
	Rules  league.Rules

	Teams map[string]*TeamState
	Weeks map[int]*WeekState
	Pairs map[string]*PairNeed

	// NeedBye is the set of teams that still owe a bye.
	NeedBye map[string]bool

	Games []Game
	Byes  []Bye
}

// New creates a fresh state: all teams at full remaining counts, all weeks
// empty, and division pairings pre-seeded at two games each. Non-division
// pairings are registered lazily via RequirePair as matchups are chosen.
func New(lg *league.League, rules league.Rules) *State {
	s := &State{
		League:  lg,
		Rules:   rules,
		Teams:   make(map[string]*TeamState),
		Weeks:   make(map[int]*WeekState),
		Pairs:   make(map[string]*PairNeed),
		NeedBye: make(map[string]bool),
	}

	// Half the league opens with the extra home date when GamesPerTeam is
	// odd, alternating over sorted ids so league-wide home demand matches
	// the game count.
	ids := lg.TeamIDs()
	for i, id := range ids {
		home := rules.GamesPerTeam / 2
		if rules.GamesPerTeam%2 == 1 && i%2 == 0 {
			home++
		}
		s.Teams[id] = &TeamState{
			ID: id,
			Remain: TeamRemaining{
				Total:     rules.GamesPerTeam,
				Div:       rules.DivisionGames,
				Intra:     rules.IntraGames,
				Inter:     rules.InterGames,
				Home:      home,
				Away:      rules.GamesPerTeam - home,
				ByeNeeded: true,
			},
			Busy:    make(map[int]Occupant),
			LastMet: make(map[string]int),
		}
		s.NeedBye[id] = true
	}

	for n := 1; n <= rules.Weeks; n++ {
		w := &WeekState{
			Number:        n,
			TotalSlots:    rules.SlotsPerWeek,
			DaySlots:      rules.SlotsPerWeek - rules.NightSlotsPerWeek,
			NightSlots:    rules.NightSlotsPerWeek,
			HostableSlots: rules.SlotsPerWeek,
		}
		if n >= rules.ByeStart && n <= rules.ByeCutoff {
			w.ByeCapacity = rules.MaxByesPerWeek
		}
		s.Weeks[n] = w
	}

	// Division pairs: a double round-robin, two games per pair.
	for _, div := range lg.Divisions() {
		for i := 0; i < len(div.Teams); i++ {
			for j := i + 1; j < len(div.Teams); j++ {
				s.Pairs[PairKey(div.Teams[i], div.Teams[j])] = &PairNeed{
					Category:  league.CategoryDivision,
					Required:  2,
					Remaining: 2,
				}
			}
		}
	}

	return s
}

// RequirePair adds (or raises) a game obligation for an unordered pair.
// Used for non-division matchups, which are obligations the league
// discovers as the schedule is hand-built.
func (s *State) RequirePair(a, b string, games int) error {
	if games <= 0 {
		return eris.Errorf("pair %s/%s: obligation must be positive, got %d", a, b, games)
	}
	cat, err := s.League.Category(a, b)
	if err != nil {
		return eris.Wrap(err, "require pair")
	}
	key := PairKey(a, b)
	p, ok := s.Pairs[key]
	if !ok {
		p = &PairNeed{Category: cat}
		s.Pairs[key] = p
	}
	p.Required += games
	p.Remaining += games
	return nil
}

// Snapshot deep-copies the state so checks can run on a frozen view while
// the original keeps mutating. The league structure is immutable and is
// shared, not copied.
func (s *State) Snapshot() (*State, error) {
	dst := &State{}
	if err := deepcopy.Copy(dst, s); err != nil {
		return nil, eris.Wrap(err, "snapshotting schedule state")
	}
	dst.League = s.League
	return dst, nil
}

// gameByID finds a placed game. The flat list is small enough that a scan
// beats maintaining another index.
func (s *State) gameByID(id string) (Game, bool) {
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// placedCount returns how many placed games the pair currently has.
func (s *State) placedCount(key string) int {
	n := 0
	for _, g := range s.Games {
		if PairKey(g.Home, g.Away) == key {
			n++
		}
	}
	return n
}

// TeamIDs returns the team ids sorted, for deterministic iteration.
func (s *State) TeamIDs() []string {
	ids := make([]string, 0, len(s.Teams))
	for id := range s.Teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WeekNumbers returns 1..Rules.Weeks in order.
func (s *State) WeekNumbers() []int {
	nums := make([]int, 0, len(s.Weeks))
	for n := 1; n <= s.Rules.Weeks; n++ {
		if _, ok := s.Weeks[n]; ok {
			nums = append(nums, n)
		}
	}
	return nums
}
