package league

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category classifies a matchup by how the two teams are related.
type Category int

const (
	// CategoryDivision is a game between two teams in the same division.
	CategoryDivision Category = iota
	// CategoryIntra is a same-conference game across divisions.
	CategoryIntra
	// CategoryInter is a cross-conference game.
	CategoryInter
)

func (c Category) String() string {
	switch c {
	case CategoryDivision:
		return "division"
	case CategoryIntra:
		return "intra-conference"
	case CategoryInter:
		return "inter-conference"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Team is the immutable identity of a club. It does not change after load.
type Team struct {
	ID         string
	Conference string
	Division   string // qualified, e.g. "AFC East"
}

type Division struct {
	Name  string   `yaml:"name"`
	Teams []string `yaml:"teams"`
}

type Conference struct {
	Name      string     `yaml:"name"`
	Divisions []Division `yaml:"divisions"`
}

// League is the conference/division/team structure for a season.
type League struct {
	Name        string       `yaml:"name"`
	Conferences []Conference `yaml:"conferences"`

	byTeam map[string]Team
}

// DivisionGroup is a qualified division with its member teams, used when
// iterating divisions league-wide.
type DivisionGroup struct {
	Name  string
	Teams []string
}

// Rules holds the global schedule constants for a season.
type Rules struct {
	Weeks             int `yaml:"weeks"`
	GamesPerTeam      int `yaml:"games_per_team"`
	SlotsPerWeek      int `yaml:"slots_per_week"`
	NightSlotsPerWeek int `yaml:"night_slots_per_week"`

	ByeStart       int `yaml:"bye_start"`
	ByeCutoff      int `yaml:"bye_cutoff"`
	MaxByesPerWeek int `yaml:"max_byes_per_week"`

	MinRematchGap      int `yaml:"min_rematch_gap"`
	MaxConsecutiveHome int `yaml:"max_consecutive_home"`
	MaxConsecutiveAway int `yaml:"max_consecutive_away"`

	MinPrimeTime int `yaml:"min_prime_time"`
	MaxPrimeTime int `yaml:"max_prime_time"`

	// Per-team game counts by category. These must sum to GamesPerTeam.
	DivisionGames int `yaml:"division_games"`
	IntraGames    int `yaml:"intra_games"`
	InterGames    int `yaml:"inter_games"`
}

// DefaultRules returns the standard 32-team, 18-week season rules.
func DefaultRules() Rules {
	return Rules{
		Weeks:              18,
		GamesPerTeam:       17,
		SlotsPerWeek:       16,
		NightSlotsPerWeek:  3,
		ByeStart:           5,
		ByeCutoff:          14,
		MaxByesPerWeek:     6,
		MinRematchGap:      4,
		MaxConsecutiveHome: 3,
		MaxConsecutiveAway: 3,
		MinPrimeTime:       1,
		MaxPrimeTime:       5,
		DivisionGames:      6,
		IntraGames:         6,
		InterGames:         5,
	}
}

// Config pairs a league structure with its season rules.
type Config struct {
	League League `yaml:"league"`
	Rules  Rules  `yaml:"rules"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.League.index()
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// New builds a League directly from conferences, for programmatic use.
func New(name string, conferences []Conference) *League {
	l := &League{Name: name, Conferences: conferences}
	l.index()
	return l
}

func (l *League) index() {
	l.byTeam = make(map[string]Team)
	for _, conf := range l.Conferences {
		for _, div := range conf.Divisions {
			qualified := conf.Name + " " + div.Name
			for _, id := range div.Teams {
				l.byTeam[id] = Team{ID: id, Conference: conf.Name, Division: qualified}
			}
		}
	}
}

// Team looks up a team by id.
func (l *League) Team(id string) (Team, bool) {
	t, ok := l.byTeam[id]
	return t, ok
}

// Teams returns all teams sorted by id.
func (l *League) Teams() []Team {
	teams := make([]Team, 0, len(l.byTeam))
	for _, t := range l.byTeam {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams
}

// TeamIDs returns all team ids sorted.
func (l *League) TeamIDs() []string {
	ids := make([]string, 0, len(l.byTeam))
	for id := range l.byTeam {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Divisions returns every division with its teams, sorted by qualified name.
func (l *League) Divisions() []DivisionGroup {
	var groups []DivisionGroup
	for _, conf := range l.Conferences {
		for _, div := range conf.Divisions {
			teams := append([]string(nil), div.Teams...)
			sort.Strings(teams)
			groups = append(groups, DivisionGroup{
				Name:  conf.Name + " " + div.Name,
				Teams: teams,
			})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// Category classifies the matchup between two teams. Both ids must exist.
func (l *League) Category(a, b string) (Category, error) {
	ta, ok := l.byTeam[a]
	if !ok {
		return 0, fmt.Errorf("unknown team %q", a)
	}
	tb, ok := l.byTeam[b]
	if !ok {
		return 0, fmt.Errorf("unknown team %q", b)
	}
	switch {
	case ta.Division == tb.Division:
		return CategoryDivision, nil
	case ta.Conference == tb.Conference:
		return CategoryIntra, nil
	default:
		return CategoryInter, nil
	}
}

func (c *Config) validate() error {
	r := c.Rules
	if r.Weeks <= 0 {
		return fmt.Errorf("weeks must be positive, got %d", r.Weeks)
	}
	if r.GamesPerTeam >= r.Weeks {
		return fmt.Errorf("games_per_team %d leaves no room for a bye in %d weeks", r.GamesPerTeam, r.Weeks)
	}
	if got := r.DivisionGames + r.IntraGames + r.InterGames; got != r.GamesPerTeam {
		return fmt.Errorf("category games %d+%d+%d do not sum to games_per_team %d",
			r.DivisionGames, r.IntraGames, r.InterGames, r.GamesPerTeam)
	}
	if r.ByeStart < 1 || r.ByeStart > r.ByeCutoff || r.ByeCutoff > r.Weeks {
		return fmt.Errorf("bye window %d..%d is not within weeks 1..%d", r.ByeStart, r.ByeCutoff, r.Weeks)
	}

	if len(c.League.Conferences) == 0 {
		return fmt.Errorf("at least one conference is required")
	}

	// Check for duplicate team ids and division sizing
	seen := make(map[string]string)
	teamCount := 0
	for _, conf := range c.League.Conferences {
		if len(conf.Divisions) == 0 {
			return fmt.Errorf("conference %q has no divisions", conf.Name)
		}
		for _, div := range conf.Divisions {
			if len(div.Teams) < 2 {
				return fmt.Errorf("division %q %q needs at least two teams", conf.Name, div.Name)
			}
			if want := 2 * (len(div.Teams) - 1); want != r.DivisionGames {
				return fmt.Errorf("division %q %q has %d teams but division_games is %d (expected %d for a double round-robin)",
					conf.Name, div.Name, len(div.Teams), r.DivisionGames, want)
			}
			for _, team := range div.Teams {
				if prev, ok := seen[team]; ok {
					return fmt.Errorf("team %q appears in both %q and %q %q", team, prev, conf.Name, div.Name)
				}
				seen[team] = conf.Name + " " + div.Name
				teamCount++
			}
		}
	}

	if teamCount*r.GamesPerTeam%2 != 0 {
		return fmt.Errorf("%d teams at %d games each is an odd number of team-games", teamCount, r.GamesPerTeam)
	}

	return nil
}
