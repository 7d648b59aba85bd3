package feasibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekprior/gridlock/internal/state"
)

func TestDivisionReserveUnsat(t *testing.T) {
	rules := smallRules()
	rules.Weeks = 3
	rules.ByeStart, rules.ByeCutoff = 2, 3
	s := stateWith(smallLeague(), rules)

	// Division A owes five more games after this one, but the meeting in
	// week 2 exhausts the A1/A2 rematch windows entirely and occupies a
	// week for both, leaving 4 legal week-windows for 5 games.
	mustPlace(s, state.Game{ID: "g1", Week: 2, Home: "A1", Away: "A2"})

	results := checkDivisionReserve(s)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, LevelUnsat, r.Level)
	assert.Equal(t, StageD, r.Stage)
	assert.Equal(t, ConstraintDivisionReserve, r.Constraint)
	assert.Equal(t, []string{"A1", "A2", "A3"}, r.Details.AffectedTeams)
	assert.Equal(t, 5, r.Details.Needed)
	assert.Equal(t, 4, r.Details.Capacity)
}

func TestDivisionReserveWarning(t *testing.T) {
	rules := smallRules()
	rules.Weeks = 2
	rules.ByeStart, rules.ByeCutoff = 1, 2
	s := stateWith(smallLeague(), rules)

	// Six games per division against six pooled week-windows: exactly at
	// capacity, over the 80% warn ratio.
	results := checkDivisionReserve(s)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, LevelWarning, r.Level)
		assert.Equal(t, 6, r.Details.Needed)
		assert.Equal(t, 6, r.Details.Capacity)
	}
}

func TestDivisionReserveCleanOnFreshState(t *testing.T) {
	assert.Empty(t, checkDivisionReserve(smallState()))
	assert.Empty(t, checkDivisionReserve(fullState()))
}

func TestTeamReserveUnsat(t *testing.T) {
	rules := smallRules()
	rules.Weeks = 7 // 7 games + 1 bye into 7 weeks
	rules.ByeStart, rules.ByeCutoff = 3, 6
	s := stateWith(smallLeague(), rules)

	results := checkTeamReserve(s)
	require.Len(t, results, 6)
	for _, r := range results {
		assert.Equal(t, LevelUnsat, r.Level)
		assert.Equal(t, ConstraintTeamReserve, r.Constraint)
		assert.Equal(t, 8, r.Details.Needed)
		assert.Equal(t, 7, r.Details.Capacity)
	}
}

func TestTeamReserveCountsByeAsObligation(t *testing.T) {
	s := smallState()

	// 7 games + 1 bye exactly fit 8 free weeks.
	assert.Empty(t, checkTeamReserve(s))

	// Assigning the bye consumes its week; demand and availability drop
	// together.
	require.NoError(t, s.AssignBye(state.Bye{Team: "A1", Week: 4}))
	assert.Empty(t, checkTeamReserve(s))
}
