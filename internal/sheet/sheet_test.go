package sheet

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/gridlock/internal/league"
	"github.com/derekprior/gridlock/internal/state"
)

func testConfig() *league.Config {
	return &league.Config{
		League: *league.New("Pro Football League", []league.Conference{
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
		}),
		Rules: league.DefaultRules(),
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg := testConfig()
	s := state.New(&cfg.League, cfg.Rules)

	games := []state.Game{
		{ID: "g1", Week: 1, Home: "BUF", Away: "MIA", Slot: state.SlotNight},
		{ID: "g2", Week: 1, Home: "DAL", Away: "NYG"},
		{ID: "g3", Week: 2, Home: "MIA", Away: "BUF"},
	}
	for _, g := range games {
		if err := s.PlaceGame(g); err != nil {
			t.Fatalf("PlaceGame(%s) error: %v", g.ID, err)
		}
	}
	// A cross-conference matchup registered as a manual obligation.
	if err := s.RequirePair("KC", "PHI", 1); err != nil {
		t.Fatalf("RequirePair() error: %v", err)
	}
	if err := s.PlaceGame(state.Game{ID: "g4", Week: 3, Home: "KC", Away: "PHI", Slot: state.SlotNight}); err != nil {
		t.Fatalf("PlaceGame(g4) error: %v", err)
	}
	if err := s.AssignBye(state.Bye{Team: "SEA", Week: 7}); err != nil {
		t.Fatalf("AssignBye() error: %v", err)
	}

	f, err := Export(s)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	path := t.TempDir() + "/schedule.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}

	got, err := Import(cfg, path)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	t.Run("games and byes survive", func(t *testing.T) {
		if len(got.Games) != 4 {
			t.Fatalf("imported %d games, want 4", len(got.Games))
		}
		if len(got.Byes) != 1 || got.Byes[0].Team != "SEA" || got.Byes[0].Week != 7 {
			t.Fatalf("imported byes = %+v", got.Byes)
		}
	})

	t.Run("counters match the original", func(t *testing.T) {
		for _, id := range []string{"BUF", "MIA", "DAL", "NYG", "KC", "PHI", "SEA"} {
			if got.Teams[id].Remain != s.Teams[id].Remain {
				t.Errorf("%s remain = %+v, want %+v", id, got.Teams[id].Remain, s.Teams[id].Remain)
			}
			if got.Teams[id].Streaks != s.Teams[id].Streaks {
				t.Errorf("%s streaks = %+v, want %+v", id, got.Teams[id].Streaks, s.Teams[id].Streaks)
			}
			if got.Teams[id].Night != s.Teams[id].Night {
				t.Errorf("%s night = %d, want %d", id, got.Teams[id].Night, s.Teams[id].Night)
			}
		}
	})

	t.Run("night slots restored", func(t *testing.T) {
		if got.Weeks[1].NightSlots != s.Weeks[1].NightSlots {
			t.Errorf("week 1 night slots = %d, want %d", got.Weeks[1].NightSlots, s.Weeks[1].NightSlots)
		}
		if got.Weeks[1].Filled != 2 || got.Weeks[3].Filled != 1 {
			t.Errorf("filled = w1 %d, w3 %d", got.Weeks[1].Filled, got.Weeks[3].Filled)
		}
	})

	t.Run("lazy pair registration", func(t *testing.T) {
		p, ok := got.Pairs[state.PairKey("KC", "PHI")]
		if !ok {
			t.Fatal("KC:PHI pair not registered on import")
		}
		if p.Category != league.CategoryInter || p.Required != 1 || p.Remaining != 0 {
			t.Errorf("pair = %+v", p)
		}
		if got.Pairs[state.PairKey("BUF", "MIA")].Remaining != 0 {
			t.Error("division pair should have both games accounted")
		}
	})
}

func TestImportRejectsBadMatchup(t *testing.T) {
	cfg := testConfig()

	f := excelize.NewFile()
	f.NewSheet("Schedule")
	f.SetCellValue("Schedule", "A1", "Week")
	f.SetCellValue("Schedule", "B1", "Slot")
	f.SetCellValue("Schedule", "C1", "Matchup")
	f.SetCellValue("Schedule", "A2", 1)
	f.SetCellValue("Schedule", "B2", "day")
	f.SetCellValue("Schedule", "C2", "BUF vs MIA") // wrong separator
	f.NewSheet("Byes")

	path := t.TempDir() + "/bad.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}

	_, err := Import(cfg, path)
	if err == nil {
		t.Fatal("expected an error for a malformed matchup")
	}
	if !strings.Contains(err.Error(), "bad matchup") {
		t.Errorf("error %q does not mention the matchup", err)
	}
}

func TestImportRejectsUnknownTeam(t *testing.T) {
	cfg := testConfig()

	f := excelize.NewFile()
	f.NewSheet("Schedule")
	f.SetCellValue("Schedule", "A2", 1)
	f.SetCellValue("Schedule", "B2", "day")
	f.SetCellValue("Schedule", "C2", "XXX @ BUF")
	f.NewSheet("Byes")

	path := t.TempDir() + "/unknown.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}

	if _, err := Import(cfg, path); err == nil {
		t.Fatal("expected an error for an unknown team")
	}
}

func TestParseMatchup(t *testing.T) {
	away, home, ok := parseMatchup("MIA @ BUF")
	if !ok || away != "MIA" || home != "BUF" {
		t.Errorf("parseMatchup = %q, %q, %v", away, home, ok)
	}
	if _, _, ok := parseMatchup("open"); ok {
		t.Error("expected failure for a non-matchup cell")
	}
}
