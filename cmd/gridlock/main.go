package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/derekprior/gridlock/internal/feasibility"
	"github.com/derekprior/gridlock/internal/league"
	"github.com/derekprior/gridlock/internal/sheet"
	"github.com/derekprior/gridlock/internal/state"
)

const defaultConfigFile = "league.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridlock",
		Short: "League schedule feasibility checker",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: league.yaml in current directory)")

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log check timings")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter league.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	var newOutputFile string
	newCmd := &cobra.Command{
		Use:          "new",
		Short:        "Write an empty season workbook to fill in",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runNew(configPath, newOutputFile)
		},
	}
	newCmd.Flags().StringVarP(&newOutputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	var quick bool
	checkCmd := &cobra.Command{
		Use:          "check <schedule.xlsx>",
		Short:        "Check whether a partial schedule can still be completed",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runCheck(configPath, args[0], quick, verbose)
		},
	}
	checkCmd.Flags().BoolVar(&quick, "quick", false, "Run only the aggregate bounds checks")

	rootCmd.AddCommand(initCmd, newCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

func runNew(configPath, outputPath string) error {
	cfg, err := league.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s := state.New(&cfg.League, cfg.Rules)
	f, err := sheet.Export(s)
	if err != nil {
		return fmt.Errorf("generating workbook: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Empty season workbook saved to %s\n", outputPath)
	return nil
}

func runCheck(configPath, schedulePath string, quick, verbose bool) error {
	cfg, err := league.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := sheet.Import(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("importing schedule: %w", err)
	}
	snap, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshotting state: %w", err)
	}

	engine := feasibility.NewEngine()
	if verbose {
		engine.Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	var results []feasibility.Result
	if quick {
		results = engine.QuickCheck(snap)
	} else {
		results = engine.FullCheck(snap)
	}

	fmt.Printf("Checked %d placed games and %d byes across %d weeks\n\n",
		len(snap.Games), len(snap.Byes), snap.Rules.Weeks)

	if len(results) == 0 {
		fmt.Println("✓ All feasibility checks pass")
		return nil
	}

	groups := feasibility.GroupByConstraint(results)
	constraints := make([]string, 0, len(groups))
	for c := range groups {
		constraints = append(constraints, string(c))
	}
	sort.Strings(constraints)

	unsat, warnings := 0, 0
	for _, constraint := range constraints {
		fmt.Printf("%s:\n", constraint)
		for _, r := range groups[feasibility.Constraint(constraint)] {
			switch r.Level {
			case feasibility.LevelUnsat:
				unsat++
				fmt.Printf("  ✗ %s\n", r.Message)
			case feasibility.LevelWarning:
				warnings++
				fmt.Printf("  ⚠ %s\n", r.Message)
			}
		}
	}

	fmt.Printf("\nCheck complete: %d infeasible constraints, %d warnings\n", unsat, warnings)
	if unsat > 0 {
		return fmt.Errorf("schedule cannot be completed as placed")
	}
	return nil
}

const configTemplate = `# Gridlock League Configuration
# =============================
# This file defines the league structure and the season rules the
# feasibility checks run against.

league:
  name: Pro Football League
  conferences:
    - name: AFC
      divisions:
        - name: East
          teams: [BUF, MIA, NE, NYJ]
        - name: North
          teams: [BAL, CIN, CLE, PIT]
        - name: South
          teams: [HOU, IND, JAX, TEN]
        - name: West
          teams: [DEN, KC, LAC, LV]
    - name: NFC
      divisions:
        - name: East
          teams: [DAL, NYG, PHI, WAS]
        - name: North
          teams: [CHI, DET, GB, MIN]
        - name: South
          teams: [ATL, CAR, NO, TB]
        - name: West
          teams: [ARI, LAR, SEA, SF]

rules:
  # Season shape.
  weeks: 18
  games_per_team: 17
  slots_per_week: 16
  night_slots_per_week: 3

  # Byes may only be assigned in this week window, with a per-week cap.
  bye_start: 5
  bye_cutoff: 14
  max_byes_per_week: 6

  # Minimum weeks between two meetings of the same pair, and the longest
  # run of consecutive home or away games allowed.
  min_rematch_gap: 4
  max_consecutive_home: 3
  max_consecutive_away: 3

  # Prime-time appearances per team across the season.
  min_prime_time: 1
  max_prime_time: 5

  # Per-team game counts by category. Must sum to games_per_team, and
  # division_games must match a double round-robin of the division size.
  division_games: 6
  intra_games: 6
  inter_games: 5
`
