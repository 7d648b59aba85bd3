package feasibility

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/derekprior/gridlock/internal/state"
)

// Engine sequences the feasibility stages over a state snapshot. Checks
// are pure: they never mutate the state they inspect, so an Engine is
// safe to reuse across snapshots.
type Engine struct {
	// Lookahead is the Stage B window, in weeks past the earliest
	// incomplete week.
	Lookahead int

	Log zerolog.Logger
}

// NewEngine returns an engine with the default look-ahead and no logging.
func NewEngine() *Engine {
	return &Engine{Lookahead: DefaultLookahead, Log: zerolog.Nop()}
}

// QuickCheck runs Stage A only. Intended to run on every edit.
func (e *Engine) QuickCheck(s *state.State) []Result {
	started := time.Now()
	results := checkBounds(s)
	e.Log.Debug().
		Dur("elapsed", time.Since(started)).
		Int("results", len(results)).
		Msg("quick check")
	return results
}

// FullCheck runs Stage A, then B and D. A Stage-A UNSAT short-circuits:
// once capacity is provably insufficient, the finer week and division
// analysis is redundant and only its bounds results are returned.
func (e *Engine) FullCheck(s *state.State) []Result {
	started := time.Now()
	results := checkBounds(s)
	if IsUnsatisfiable(results) {
		e.Log.Debug().
			Dur("elapsed", time.Since(started)).
			Int("results", len(results)).
			Msg("full check short-circuited at stage A")
		return results
	}
	results = append(results, checkWeekPairings(s, e.Lookahead)...)
	results = append(results, checkDivisionReserve(s)...)
	results = append(results, checkTeamReserve(s)...)
	e.Log.Debug().
		Dur("elapsed", time.Since(started)).
		Int("results", len(results)).
		Msg("full check")
	return results
}

var defaultEngine = NewEngine()

// QuickCheck runs Stage A with the default engine.
func QuickCheck(s *state.State) []Result { return defaultEngine.QuickCheck(s) }

// FullCheck runs all stages with the default engine.
func FullCheck(s *state.State) []Result { return defaultEngine.FullCheck(s) }
