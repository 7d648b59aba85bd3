package state

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/derekprior/gridlock/internal/league"
)

// PlaceGame applies a single game placement, updating every view of the
// aggregate. Invalid references or violated preconditions fail loudly
// before anything is touched; a failed call leaves no partial mutation.
func (s *State) PlaceGame(g Game) error {
	if g.ID == "" {
		return eris.New("place game: empty game id")
	}
	if g.Home == g.Away {
		return eris.Errorf("place game %s: team %s cannot play itself", g.ID, g.Home)
	}
	home, ok := s.Teams[g.Home]
	if !ok {
		return eris.Errorf("place game %s: unknown home team %q", g.ID, g.Home)
	}
	away, ok := s.Teams[g.Away]
	if !ok {
		return eris.Errorf("place game %s: unknown away team %q", g.ID, g.Away)
	}
	week, ok := s.Weeks[g.Week]
	if !ok {
		return eris.Errorf("place game %s: unknown week %d", g.ID, g.Week)
	}
	if _, exists := s.gameByID(g.ID); exists {
		return eris.Errorf("place game: duplicate game id %q", g.ID)
	}
	if occ, busy := home.Busy[g.Week]; busy {
		return eris.Errorf("place game %s: %s is already busy in week %d (%s)", g.ID, g.Home, g.Week, describe(occ))
	}
	if occ, busy := away.Busy[g.Week]; busy {
		return eris.Errorf("place game %s: %s is already busy in week %d (%s)", g.ID, g.Away, g.Week, describe(occ))
	}
	if week.Filled >= week.TotalSlots {
		return eris.Errorf("place game %s: week %d has no open slots", g.ID, g.Week)
	}
	if g.Slot == SlotNight && week.NightSlots <= 0 {
		return eris.Errorf("place game %s: week %d has no night slots left", g.ID, g.Week)
	}
	cat, err := s.League.Category(g.Home, g.Away)
	if err != nil {
		return eris.Wrapf(err, "place game %s", g.ID)
	}

	// All preconditions hold; apply.
	home.Busy[g.Week] = Occupant{GameID: g.ID}
	away.Busy[g.Week] = Occupant{GameID: g.ID}
	if g.Week > home.LastMet[g.Away] {
		home.LastMet[g.Away] = g.Week
		away.LastMet[g.Home] = g.Week
	}

	for _, t := range [2]*TeamState{home, away} {
		t.Remain.Total--
		switch cat {
		case league.CategoryDivision:
			t.Remain.Div--
		case league.CategoryIntra:
			t.Remain.Intra--
		case league.CategoryInter:
			t.Remain.Inter--
		}
	}
	home.Remain.Home--
	away.Remain.Away--

	home.Streaks.Home++
	home.Streaks.Away = 0
	away.Streaks.Away++
	away.Streaks.Home = 0

	if p, ok := s.Pairs[PairKey(g.Home, g.Away)]; ok && p.Remaining > 0 {
		p.Remaining--
	}

	week.Filled++
	if g.Slot == SlotNight {
		week.NightSlots--
		home.Night++
		away.Night++
	} else {
		week.DaySlots--
	}
	week.Games = append(week.Games, g)
	s.Games = append(s.Games, g)

	return nil
}

// RemoveGame is the exact inverse of PlaceGame for every counter except
// streaks, which depend on placement order and are recomputed from scratch
// for both affected teams.
func (s *State) RemoveGame(id string) error {
	idx := -1
	for i, g := range s.Games {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return eris.Errorf("remove game: no placed game with id %q", id)
	}
	g := s.Games[idx]
	home := s.Teams[g.Home]
	away := s.Teams[g.Away]
	week := s.Weeks[g.Week]
	cat, err := s.League.Category(g.Home, g.Away)
	if err != nil {
		return eris.Wrapf(err, "remove game %s", id)
	}

	s.Games = append(s.Games[:idx], s.Games[idx+1:]...)
	for i, wg := range week.Games {
		if wg.ID == id {
			week.Games = append(week.Games[:i], week.Games[i+1:]...)
			break
		}
	}
	delete(home.Busy, g.Week)
	delete(away.Busy, g.Week)

	for _, t := range [2]*TeamState{home, away} {
		t.Remain.Total++
		switch cat {
		case league.CategoryDivision:
			t.Remain.Div++
		case league.CategoryIntra:
			t.Remain.Intra++
		case league.CategoryInter:
			t.Remain.Inter++
		}
	}
	home.Remain.Home++
	away.Remain.Away++

	week.Filled--
	if g.Slot == SlotNight {
		week.NightSlots++
		home.Night--
		away.Night--
	} else {
		week.DaySlots++
	}

	key := PairKey(g.Home, g.Away)
	if p, ok := s.Pairs[key]; ok {
		// Rebuild from the surviving games rather than incrementing, so a
		// pair that was over-placed past its requirement stays exact.
		p.Remaining = p.Required - s.placedCount(key)
		if p.Remaining < 0 {
			p.Remaining = 0
		}
	}

	s.rebuildLastMet(g.Home, g.Away)
	s.recomputeStreaks(home)
	s.recomputeStreaks(away)

	return nil
}

// AssignBye places a team's bye week. Fails if the team already has a bye,
// the week's bye capacity is exhausted, or the team is busy that week.
func (s *State) AssignBye(b Bye) error {
	t, ok := s.Teams[b.Team]
	if !ok {
		return eris.Errorf("assign bye: unknown team %q", b.Team)
	}
	week, ok := s.Weeks[b.Week]
	if !ok {
		return eris.Errorf("assign bye: unknown week %d", b.Week)
	}
	if !t.Remain.ByeNeeded {
		return eris.Errorf("assign bye: %s already has a bye", b.Team)
	}
	if week.ByesAssigned >= week.ByeCapacity {
		return eris.Errorf("assign bye: week %d is at bye capacity (%d of %d)", b.Week, week.ByesAssigned, week.ByeCapacity)
	}
	if occ, busy := t.Busy[b.Week]; busy {
		return eris.Errorf("assign bye: %s is already busy in week %d (%s)", b.Team, b.Week, describe(occ))
	}

	t.Busy[b.Week] = Occupant{Bye: true}
	t.Remain.ByeNeeded = false
	delete(s.NeedBye, b.Team)
	t.Streaks = TeamStreaks{}
	week.ByesAssigned++
	week.Byes = append(week.Byes, b)
	s.Byes = append(s.Byes, b)

	return nil
}

// RemoveBye reverts a bye assignment. Streaks are recomputed afterward
// since removing a bye may reconnect a previously broken run.
func (s *State) RemoveBye(team string, weekNum int) error {
	t, ok := s.Teams[team]
	if !ok {
		return eris.Errorf("remove bye: unknown team %q", team)
	}
	week, ok := s.Weeks[weekNum]
	if !ok {
		return eris.Errorf("remove bye: unknown week %d", weekNum)
	}
	occ, busy := t.Busy[weekNum]
	if !busy || !occ.Bye {
		return eris.Errorf("remove bye: %s has no bye in week %d", team, weekNum)
	}

	delete(t.Busy, weekNum)
	t.Remain.ByeNeeded = true
	s.NeedBye[team] = true
	week.ByesAssigned--
	for i, wb := range week.Byes {
		if wb.Team == team {
			week.Byes = append(week.Byes[:i], week.Byes[i+1:]...)
			break
		}
	}
	for i, sb := range s.Byes {
		if sb.Team == team && sb.Week == weekNum {
			s.Byes = append(s.Byes[:i], s.Byes[i+1:]...)
			break
		}
	}
	s.recomputeStreaks(t)

	return nil
}

// NormalizeStreaks recomputes every team's streak counters from scratch.
// Incremental streak updates assume chronological placement; callers that
// replay games in arbitrary order (such as a workbook import) call this
// once at the end.
func (s *State) NormalizeStreaks() {
	for _, t := range s.Teams {
		s.recomputeStreaks(t)
	}
}

// rebuildLastMet recomputes the lastMet entries for one pair from the
// surviving games list.
func (s *State) rebuildLastMet(a, b string) {
	key := PairKey(a, b)
	latest, found := 0, false
	for _, g := range s.Games {
		if PairKey(g.Home, g.Away) == key && g.Week > latest {
			latest = g.Week
			found = true
		}
	}
	if found {
		s.Teams[a].LastMet[b] = latest
		s.Teams[b].LastMet[a] = latest
	} else {
		delete(s.Teams[a].LastMet, b)
		delete(s.Teams[b].LastMet, a)
	}
}

// recomputeStreaks derives a team's streak counters from its busy-week map:
// walk back from the latest occupied week counting the run of consecutive
// same-venue games, stopping at a bye, a gap, or a venue change.
func (s *State) recomputeStreaks(t *TeamState) {
	t.Streaks = TeamStreaks{}
	if len(t.Busy) == 0 {
		return
	}
	weeks := make([]int, 0, len(t.Busy))
	for w := range t.Busy {
		weeks = append(weeks, w)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(weeks)))

	last := weeks[0]
	occ := t.Busy[last]
	if occ.Bye {
		return
	}
	g, ok := s.gameByID(occ.GameID)
	if !ok {
		return
	}
	atHome := g.Home == t.ID
	count := 1
	for w := last - 1; w >= 1; w-- {
		occ, busy := t.Busy[w]
		if !busy || occ.Bye {
			break
		}
		g, ok := s.gameByID(occ.GameID)
		if !ok || (g.Home == t.ID) != atHome {
			break
		}
		count++
	}
	if atHome {
		t.Streaks.Home = count
	} else {
		t.Streaks.Away = count
	}
}

func describe(o Occupant) string {
	if o.Bye {
		return "bye"
	}
	return "game " + o.GameID
}
