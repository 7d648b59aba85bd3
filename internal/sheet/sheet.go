// Package sheet reads and writes schedule workbooks: the editing surface
// a league scheduler actually works in.
package sheet

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/gridlock/internal/league"
	"github.com/derekprior/gridlock/internal/state"
)

const (
	scheduleSheet = "Schedule"
	byesSheet     = "Byes"
)

// Export renders a schedule state into a workbook: the master Schedule
// sheet, a Byes sheet, and a week-by-week sheet per team.
func Export(s *state.State) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeScheduleSheet(f, s); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeByesSheet(f, s); err != nil {
		return nil, fmt.Errorf("writing byes sheet: %w", err)
	}
	if err := writeTeamSheets(f, s); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), style)
		}
	}
}

func writeScheduleSheet(f *excelize.File, s *state.State) error {
	f.NewSheet(scheduleSheet)
	writeHeaders(f, scheduleSheet, []string{"Week", "Slot", "Matchup"})

	games := append([]state.Game(nil), s.Games...)
	sort.Slice(games, func(i, j int) bool {
		if games[i].Week != games[j].Week {
			return games[i].Week < games[j].Week
		}
		if games[i].Slot != games[j].Slot {
			return games[i].Slot < games[j].Slot
		}
		return games[i].ID < games[j].ID
	})

	for i, g := range games {
		row := i + 2
		f.SetCellValue(scheduleSheet, cellRef(1, row), g.Week)
		f.SetCellValue(scheduleSheet, cellRef(2, row), g.Slot.String())
		f.SetCellValue(scheduleSheet, cellRef(3, row), fmt.Sprintf("%s @ %s", g.Away, g.Home))
	}

	f.SetColWidth(scheduleSheet, "A", "B", 8)
	f.SetColWidth(scheduleSheet, "C", "C", 20)
	return nil
}

func writeByesSheet(f *excelize.File, s *state.State) error {
	f.NewSheet(byesSheet)
	writeHeaders(f, byesSheet, []string{"Week", "Team"})

	byes := append([]state.Bye(nil), s.Byes...)
	sort.Slice(byes, func(i, j int) bool {
		if byes[i].Week != byes[j].Week {
			return byes[i].Week < byes[j].Week
		}
		return byes[i].Team < byes[j].Team
	})

	for i, b := range byes {
		row := i + 2
		f.SetCellValue(byesSheet, cellRef(1, row), b.Week)
		f.SetCellValue(byesSheet, cellRef(2, row), b.Team)
	}
	return nil
}

func writeTeamSheets(f *excelize.File, s *state.State) error {
	for _, id := range s.TeamIDs() {
		t := s.Teams[id]
		f.NewSheet(id)
		writeHeaders(f, id, []string{"Week", "Opponent", "Venue", "Slot"})

		for _, w := range s.WeekNumbers() {
			row := w + 1
			f.SetCellValue(id, cellRef(1, row), w)

			occ, busy := t.Busy[w]
			switch {
			case !busy:
				// open week, leave blank
			case occ.Bye:
				f.SetCellValue(id, cellRef(2, row), "BYE")
			default:
				g, ok := gameByID(s, occ.GameID)
				if !ok {
					return fmt.Errorf("team %s week %d references missing game %s", id, w, occ.GameID)
				}
				if g.Home == id {
					f.SetCellValue(id, cellRef(2, row), g.Away)
					f.SetCellValue(id, cellRef(3, row), "Home")
				} else {
					f.SetCellValue(id, cellRef(2, row), g.Home)
					f.SetCellValue(id, cellRef(3, row), "Away")
				}
				f.SetCellValue(id, cellRef(4, row), g.Slot.String())
			}
		}
	}
	return nil
}

// Import reads a workbook written by Export (or hand-edited in the same
// shape) into a fresh state. Non-division matchups register their pairing
// obligation lazily as each is encountered.
func Import(cfg *league.Config, path string) (*state.State, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	s := state.New(&cfg.League, cfg.Rules)

	rows, err := f.GetRows(scheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", scheduleSheet, err)
	}
	for i, row := range rows {
		if i == 0 || len(row) < 3 || row[0] == "" {
			continue
		}
		week, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad week %q", scheduleSheet, i+1, row[0])
		}
		slot := state.SlotDay
		if row[1] == "night" {
			slot = state.SlotNight
		}
		away, home, ok := parseMatchup(row[2])
		if !ok {
			return nil, fmt.Errorf("%s row %d: bad matchup %q", scheduleSheet, i+1, row[2])
		}

		cat, err := cfg.League.Category(home, away)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", scheduleSheet, i+1, err)
		}
		if cat != league.CategoryDivision {
			if err := s.RequirePair(home, away, 1); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", scheduleSheet, i+1, err)
			}
		}

		g := state.Game{
			ID:   fmt.Sprintf("wk%02d-%s-at-%s", week, away, home),
			Week: week,
			Home: home,
			Away: away,
			Slot: slot,
		}
		if err := s.PlaceGame(g); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", scheduleSheet, i+1, err)
		}
	}

	byeRows, err := f.GetRows(byesSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", byesSheet, err)
	}
	for i, row := range byeRows {
		if i == 0 || len(row) < 2 || row[0] == "" {
			continue
		}
		week, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad week %q", byesSheet, i+1, row[0])
		}
		if err := s.AssignBye(state.Bye{Team: row[1], Week: week}); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", byesSheet, i+1, err)
		}
	}

	// Rows may not be in week order, so derive streaks from the final
	// busy maps rather than trusting the incremental updates.
	s.NormalizeStreaks()

	return s, nil
}

// parseMatchup parses "AWAY @ HOME" and returns (away, home, true).
func parseMatchup(cell string) (away, home string, ok bool) {
	for i := 0; i < len(cell)-2; i++ {
		if cell[i] == ' ' && cell[i+1] == '@' && cell[i+2] == ' ' {
			return cell[:i], cell[i+3:], true
		}
	}
	return "", "", false
}

func gameByID(s *state.State, id string) (state.Game, bool) {
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return state.Game{}, false
}

func cellRef(col, row int) string {
	return colLetter(col) + strconv.Itoa(row)
}

func colLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
